// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of passwords and digest output
//   - Configurable log levels with verbose mode support
//   - An optional rotating log file backed by lumberjack
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - Attributes whose key names a password, hash, prefix or secret
//   - Values that look like hex digests or modular crypt hashes
//
// Even in verbose mode, sensitive values are masked. Only k-anonymity
// numbers, algorithm names and truncation lengths reach the log.
//
// # Usage
//
//	logger, closer := log.New(os.Stderr, log.Options{Verbose: true})
//	defer closer.Close()
//
//	logger.Debug("evaluation complete",
//	    "digest", "SHA256",       // kept
//	    "prefix", "5e884",        // sanitized
//	    "k_anonymity", 12,        // kept
//	)
package log
