package digest

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is one of the measured algorithms, not used for security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/htruong/go-md2"
	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Hash returns the lowercase hex digest of password under a.
// A fresh hash state is created for every call.
func Hash(a Algorithm, password string) (string, error) {
	h, err := newHasher(a)
	if err != nil {
		return "", err
	}
	// hash.Hash.Write never returns an error.
	_, _ = h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// newHasher is the single dispatch point from algorithm tag to implementation.
func newHasher(a Algorithm) (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil //nolint:gosec // measured algorithm
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_512:
		return sha3.New512(), nil
	case BLAKE2S256:
		// Unkeyed BLAKE2s never fails.
		return blake2s.New256(nil)
	case BLAKE2B512:
		return blake2b.New512(nil)
	case FSB160:
		return newFSB(fsb160Params), nil
	case FSB256:
		return newFSB(fsb256Params), nil
	case FSB512:
		return newFSB(fsb512Params), nil
	case MD2:
		return md2.New(), nil
	case WHIRLPOOL:
		return whirlpool.New(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, int(a))
	}
}
