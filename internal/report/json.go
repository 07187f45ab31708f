package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/reporttable/internal/table"
)

// JSONWriter outputs tables as a JSON object holding the header row and
// the body rows. Rows keep the shape Table.ToCSV produces.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// title is stored in the title field when non-empty.
	title string
}

// JSONTable is the JSON document produced by JSONWriter.
type JSONTable struct {
	// Title is the table caption.
	Title string `json:"title,omitempty"`

	// Header is the CSV header row.
	Header []string `json:"header"`

	// Rows holds one entry per table line.
	Rows [][]string `json:"rows"`
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithJSONTitle stores title in the output document.
func WithJSONTitle(title string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.title = title
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the table and writes it as one JSON document.
func (w *JSONWriter) Write(t *table.Table) (int, error) {
	rows, err := t.ToCSV()
	if err != nil {
		return 0, err
	}

	doc := JSONTable{Title: w.title, Header: rows[0], Rows: rows[1:]}
	if doc.Header == nil {
		doc.Header = []string{}
	}

	var data []byte
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
