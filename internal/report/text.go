package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/nao1215/reporttable/internal/table"
)

// TextWriter outputs tables as aligned plain text for terminals.
// Header titles and cell values are printed verbatim, so the leading
// indentation of left aligned cells survives.
type TextWriter struct {
	baseWriter

	// title is printed on its own line above the table.
	title string

	// borders draws ASCII borders around the table.
	borders bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithTextTitle prints title above the table. An empty title prints nothing.
func WithTextTitle(title string) TextWriterOption {
	return func(w *TextWriter) {
		w.title = title
	}
}

// WithBorders draws ASCII borders around the table.
func WithBorders() TextWriterOption {
	return func(w *TextWriter) {
		w.borders = true
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the table and writes it as aligned text.
func (w *TextWriter) Write(t *table.Table) (int, error) {
	g, err := newGrid(t)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w.output}
	if w.title != "" {
		if _, err := fmt.Fprintf(cw, "%s\n\n", w.title); err != nil {
			return cw.n, err
		}
	}

	borders := tw.BorderNone
	if w.borders {
		borders = tw.Border{Left: tw.On, Top: tw.On, Right: tw.On, Bottom: tw.On}
	}

	tbl := tablewriter.NewTable(cw,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithRenderer(
			renderer.NewBlueprint(
				tw.Rendition{
					Borders: borders,
					Symbols: tw.NewSymbols(tw.StyleASCII),
				},
			),
		),
		tablewriter.WithHeader(g.header),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	if err := tbl.Bulk(g.rows); err != nil {
		return cw.n, fmt.Errorf("failed to add rows: %w", err)
	}
	if err := tbl.Render(); err != nil {
		return cw.n, fmt.Errorf("failed to render table: %w", err)
	}
	return cw.n, nil
}
