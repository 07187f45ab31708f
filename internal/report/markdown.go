package report

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/nao1215/reporttable/internal/table"
)

// MarkdownWriter outputs tables as GitHub flavored Markdown.
// The first CSV row becomes the table header. Pipes and line breaks in
// cell values are escaped so each row stays on one line.
type MarkdownWriter struct {
	baseWriter

	// title is written as a level one heading above the table.
	title string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTitle writes title as a heading. An empty title writes none.
func WithMarkdownTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the table and writes it as a Markdown table.
func (w *MarkdownWriter) Write(t *table.Table) (int, error) {
	g, err := newGrid(t)
	if err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)
	if w.title != "" {
		md.H1(w.title)
		md.PlainText("")
	}

	header := make([]string, len(g.header))
	for i, h := range g.header {
		header[i] = escapeCell(h)
	}
	rows := make([][]string, 0, len(g.rows))
	for _, row := range g.rows {
		escaped := make([]string, len(row))
		for i, v := range row {
			escaped[i] = escapeCell(v)
		}
		rows = append(rows, escaped)
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})

	return len(md.String()), md.Build()
}
