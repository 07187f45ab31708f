// Package table provides the output-format independent intermediate
// representation of a tabular report.
//
// Report generators populate a Table once with Columns, Lines and Cells.
// The Table then knows how to serialize itself:
//   - ToHTML builds a golang.org/x/net/html element tree
//   - ToCSV builds an array of string rows for a delimited text writer
//
// Formatting rules (alignment, indentation, padding, cell spans and
// scrollbar compensation) live here, separate from the logic that decides
// which data appears in a report.
//
// # Tree mode
//
// Lines carry an indentation depth for hierarchical reports. Before HTML
// rendering the Table determines the largest indentation of all lines so
// right-aligned indented cells reserve the unused indent space on their
// right side and line up across rows of different depth.
//
// # Concurrency
//
// A Table is not safe for concurrent use. Populate it and render it on one
// goroutine. Independent Tables may be rendered in parallel.
package table
