// Package anonymity implements the measurement engine: it buckets a
// password corpus by truncated digest and derives the achieved
// k-anonymity, the size of the smallest bucket.
//
// # Truncation
//
// A truncation length n keeps the first n hex characters of the digest.
// The command line calls this value "first bits" for compatibility with
// existing reports, but each character carries four bits: n = 10 keeps
// 40 bits. The engine accepts any n between 1 and the hex length of the
// selected digest.
//
// # Sequential and concurrent evaluation
//
// Bucket, KAnonymity, BestDigest and SweepLengths are pure functions that
// evaluate one combination at a time. Evaluator fans the same evaluations
// out over goroutines; every evaluation owns its bucket map and the
// password slice is only read, so the results are identical to the
// sequential functions.
package anonymity
