package digest

import (
	"fmt"
	"strings"
)

// Algorithm identifies one digest of the registry.
// The zero value is not a valid algorithm.
type Algorithm int

const (
	// SHA1 is the 160-bit SHA-1 digest.
	SHA1 Algorithm = iota + 1
	// SHA256 is the 256-bit SHA-2 digest.
	SHA256
	// SHA512 is the 512-bit SHA-2 digest.
	SHA512
	// SHA3_256 is the 256-bit SHA-3 digest.
	SHA3_256 //nolint:revive // identifier matches the CLI and CSV name
	// SHA3_512 is the 512-bit SHA-3 digest.
	SHA3_512 //nolint:revive // identifier matches the CLI and CSV name
	// BLAKE2S256 is BLAKE2s with a 256-bit output.
	BLAKE2S256
	// BLAKE2B512 is BLAKE2b with a 512-bit output.
	BLAKE2B512
	// FSB160 is the fast syndrome-based hash with a 160-bit output.
	FSB160
	// FSB256 is the fast syndrome-based hash with a 256-bit output.
	FSB256
	// FSB512 is the fast syndrome-based hash with a 512-bit output.
	FSB512
	// MD2 is the 128-bit MD2 digest (RFC 1319).
	MD2
	// WHIRLPOOL is the 512-bit Whirlpool digest.
	WHIRLPOOL
)

// registry is the fixed enumeration order. It is never modified after
// package initialisation, so concurrent reads are safe.
var registry = []Algorithm{
	SHA1, SHA256, SHA512, SHA3_256, SHA3_512, BLAKE2S256, BLAKE2B512,
	FSB160, FSB256, FSB512, MD2, WHIRLPOOL,
}

var names = map[Algorithm]string{
	SHA1:       "SHA1",
	SHA256:     "SHA256",
	SHA512:     "SHA512",
	SHA3_256:   "SHA3_256",
	SHA3_512:   "SHA3_512",
	BLAKE2S256: "BLAKE2S256",
	BLAKE2B512: "BLAKE2B512",
	FSB160:     "FSB160",
	FSB256:     "FSB256",
	FSB512:     "FSB512",
	MD2:        "MD2",
	WHIRLPOOL:  "WHIRLPOOL",
}

// Algorithms returns every supported algorithm in registry order.
// The returned slice is a copy and may be modified by the caller.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(registry))
	copy(out, registry)
	return out
}

// Names returns the identifiers of Algorithms in registry order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, a := range registry {
		out = append(out, a.String())
	}
	return out
}

// String returns the stable identifier used in flags, reports and CSV.
func (a Algorithm) String() string {
	if name, ok := names[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether a is part of the registry.
func (a Algorithm) Valid() bool {
	_, ok := names[a]
	return ok
}

// HexLen returns the length of the hex-encoded digest, i.e. the largest
// truncation length a can serve. It returns 0 for an invalid algorithm.
func (a Algorithm) HexLen() int {
	h, err := newHasher(a)
	if err != nil {
		return 0
	}
	return h.Size() * 2
}

// ParseAlgorithm resolves an identifier such as "sha3_256" or "SHA3-256".
// Matching ignores case and treats '-' like '_'.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for a, n := range names {
		if n == key {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAlgorithm, name, strings.Join(Names(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
