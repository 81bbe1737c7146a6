// Package digest provides the closed registry of hash algorithms used to
// derive truncated-hash buckets.
//
// Every algorithm is reachable through the same contract: Hash computes the
// digest of the raw UTF-8 bytes of a password and returns the lowercase hex
// encoding of every digest byte. Callers never see algorithm-specific types.
//
// # Registry
//
// Algorithms returns the supported set in a fixed order:
//
//	SHA1, SHA256, SHA512, SHA3_256, SHA3_512, BLAKE2S256, BLAKE2B512,
//	FSB160, FSB256, FSB512, MD2, WHIRLPOOL
//
// The order is stable and is used as the tie-break order when several
// algorithms achieve the same anonymity.
//
// The FSB family is implemented in this package. Its matrix vectors are read
// from fsb_pi.bin, which gen_fsb_pi.go regenerates.
package digest
