// Package model defines the data structures shared by the analysis driver,
// the report writers and the history store.
//
// This package contains the following main types:
//   - Mode: Which of the four analysis modes produced a report
//   - DigestScore: K-anonymity achieved by one digest at one truncation length
//   - LengthScore: K-anonymity achieved at one truncation length
//   - AnonymityEntry: One row of the digest × length sweep
//   - Report: The result of a single analysis run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The analysis, report and database packages all use these
// types, so centralizing them prevents import cycles.
//
// A Report never contains passwords or digests. Bucket keys are truncated
// prefixes and are only populated when debug output was requested.
package model
