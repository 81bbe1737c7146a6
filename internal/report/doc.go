// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: Colored console output with the classic result lines
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown documents with tables, alerts and charts
//
// Design decision: We separate report writing from report data structures
// (which are in the model package). This allows adding new output formats
// without modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably.
package report
