// Package report writes rendered tables to an output destination.
//
// This package contains writers for different output formats:
//   - HTMLWriter: the table element tree as HTML markup, optionally as a
//     complete page
//   - CSVWriter: delimited text for spreadsheets
//   - MarkdownWriter: GitHub Flavored Markdown tables
//   - TextWriter: ASCII tables for terminal display
//   - JSONWriter: structured JSON for tool integration
//
// HTMLWriter consumes Table.ToHTML. All other writers consume the
// array-of-arrays form from Table.ToCSV, whose first row is the header.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
