package model

import (
	"fmt"
	"strings"
)

// Format is an output format of a rendered table.
type Format string

const (
	// FormatHTML renders the table element tree as HTML markup.
	FormatHTML Format = "html"

	// FormatCSV renders the array-of-arrays form as comma separated values.
	FormatCSV Format = "csv"

	// FormatMarkdown renders the array-of-arrays form as a GitHub Flavored
	// Markdown table.
	FormatMarkdown Format = "markdown"

	// FormatText renders the array-of-arrays form as an ASCII table for
	// terminal display.
	FormatText Format = "text"

	// FormatJSON renders the array-of-arrays form as a JSON object.
	FormatJSON Format = "json"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatHTML, FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat converts a format name to a Format. Matching is case
// insensitive and accepts "md" for Markdown and "txt" for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: html, csv, markdown, text, json)", s)
	}
}

// Extension returns the file extension used for output files, including
// the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}
