package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/reporttable/internal/model"
	"github.com/nao1215/reporttable/internal/table"
)

// Writer defines the interface for report output.
// Implementations write a rendered table in one format.
type Writer interface {
	// Write renders t and writes it to the configured destination.
	// Returns the number of bytes written and any error encountered.
	// Errors raised while rendering the table are returned unchanged.
	Write(t *table.Table) (int, error)
}

// MultiWriter writes to multiple Writers in sequence.
// This is useful for producing several formats from one table.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the table to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(t *table.Table) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(t)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Options selects format specific writer behavior for NewWriter.
type Options struct {
	// Title is a caption for formats that support one.
	Title string

	// Document wraps HTML output in a complete page.
	Document bool

	// Delimiter is the CSV field separator. Zero means a comma.
	Delimiter rune

	// Pretty enables indented JSON output.
	Pretty bool
}

// NewWriter returns the writer for format.
func NewWriter(format model.Format, output io.Writer, opts Options) (Writer, error) {
	switch format {
	case model.FormatHTML:
		var hopts []HTMLWriterOption
		if opts.Document {
			hopts = append(hopts, WithDocument(opts.Title))
		}
		return NewHTMLWriter(output, hopts...), nil
	case model.FormatCSV:
		var copts []CSVWriterOption
		if opts.Delimiter != 0 {
			copts = append(copts, WithDelimiter(opts.Delimiter))
		}
		return NewCSVWriter(output, copts...), nil
	case model.FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownTitle(opts.Title)), nil
	case model.FormatText:
		return NewTextWriter(output, WithTextTitle(opts.Title)), nil
	case model.FormatJSON:
		var jopts []JSONWriterOption
		if opts.Pretty {
			jopts = append(jopts, WithPrettyPrint())
		}
		jopts = append(jopts, WithJSONTitle(opts.Title))
		return NewJSONWriter(output, jopts...), nil
	default:
		return nil, fmt.Errorf("no writer for format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// grid is the array-of-arrays form of a table split into header and body.
// Every row is padded to the same width.
type grid struct {
	header []string
	rows   [][]string
}

// newGrid renders t with ToCSV and pads ragged rows, which occur when cells
// span columns or export nothing.
func newGrid(t *table.Table) (*grid, error) {
	csv, err := t.ToCSV()
	if err != nil {
		return nil, err
	}

	width := 0
	for _, row := range csv {
		width = max(width, len(row))
	}

	g := &grid{rows: make([][]string, 0, len(csv)-1)}
	for i, row := range csv {
		padded := make([]string, width)
		copy(padded, row)
		if i == 0 {
			g.header = padded
			continue
		}
		g.rows = append(g.rows, padded)
	}
	return g, nil
}

// escapeCell makes a cell value safe for pipe-delimited table syntax.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ").Replace(s)
}
