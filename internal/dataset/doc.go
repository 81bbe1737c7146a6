// Package dataset reads password corpora from CSV files and writes the
// digest × truncation length sweep as CSV.
//
// Input files must have a header row with a "password" column. Every
// following record contributes its password field verbatim; other columns
// are ignored.
//
// Design decision: We use encoding/csv rather than a third-party CSV
// package because the files are plain RFC 4180 tables with a fixed
// header, and the standard reader already reports line-accurate parse
// errors.
package dataset
