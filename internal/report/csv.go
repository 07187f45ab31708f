package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/reporttable/internal/table"
)

// CSVWriter outputs tables as delimited text. Quoting follows RFC 4180 via
// encoding/csv. Rows are written as Table.ToCSV produces them, without
// padding ragged rows. Indented left aligned values start with spaces and
// are therefore quoted.
type CSVWriter struct {
	baseWriter

	// delimiter is the field separator.
	delimiter rune

	// useCRLF terminates records with \r\n instead of \n.
	useCRLF bool
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithDelimiter sets the field separator, e.g. ';' or '\t'.
func WithDelimiter(r rune) CSVWriterOption {
	return func(w *CSVWriter) {
		w.delimiter = r
	}
}

// WithCRLF terminates records with \r\n.
func WithCRLF(useCRLF bool) CSVWriterOption {
	return func(w *CSVWriter) {
		w.useCRLF = useCRLF
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		delimiter:  ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the table and writes one record per row.
func (w *CSVWriter) Write(t *table.Table) (int, error) {
	rows, err := t.ToCSV()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w.output}
	enc := csv.NewWriter(cw)
	enc.Comma = w.delimiter
	enc.UseCRLF = w.useCRLF
	if err := enc.WriteAll(rows); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
