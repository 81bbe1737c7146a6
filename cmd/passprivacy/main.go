// Package main provides the entry point for the passprivacy CLI.
//
// passprivacy measures the k-anonymity a password corpus keeps when each
// password is replaced by a truncated hash, the technique behind
// breach-checking APIs.
//
// Usage:
//
//	passprivacy analyze -p passwords.csv -b 5 -d SHA1
//	passprivacy analyze -p passwords.csv
//
// See --help for all available options.
package main

// main is the entry point for passprivacy.
func main() {
	Execute()
}
