package table

import (
	"fmt"

	"golang.org/x/net/html"
)

// Default header metrics in screen pixels.
const (
	// DefaultHeaderLineHeight is the height of each of the two header rows.
	DefaultHeaderLineHeight = 19

	// DefaultHeaderFontSize is the font size used in the header rows.
	DefaultHeaderFontSize = 15

	// indentWidth is the horizontal space of one indentation level.
	indentWidth = 8
)

// Column is the header metadata of one table column.
// ReportColumn is the implementation used by report generators.
type Column interface {
	// MinWidth returns the minimum width of the column in pixels.
	// The second result is false if the column does not declare one.
	MinWidth() (int, bool)

	// Scrollbar reports whether the column carries a scrollbar.
	Scrollbar() bool

	// ToHTML returns the header cell for header row 1 or 2.
	ToHTML(row int) (*html.Node, error)

	// AppendCSV appends the column's header text to row.
	AppendCSV(row []string) ([]string, error)
}

// Line is one logical row of a table.
// ReportLine is the implementation used by report generators.
type Line interface {
	// Indentation returns the tree depth of the line.
	Indentation() int

	// Table returns the table the line is registered with.
	Table() *Table

	// AddCell appends a cell to the line. It is called by NewCell.
	AddCell(c *Cell)

	// ToHTML returns the complete row element with its cells rendered.
	ToHTML() (*html.Node, error)

	// AppendCSV appends the CSV value of each cell to row.
	AppendCSV(row []string) ([]string, error)
}

// Table is the intermediate representation of a report table.
// Columns and lines are rendered in registration order.
type Table struct {
	headerLineHeight int
	headerFontSize   int

	columns []Column
	lines   []Line

	// maxIndent is only valid during a render call.
	maxIndent int
}

// Option configures a Table.
type Option func(*Table)

// WithHeaderLineHeight sets the height of the header rows in pixels.
func WithHeaderLineHeight(px int) Option {
	return func(t *Table) {
		if px > 0 {
			t.headerLineHeight = px
		}
	}
}

// WithHeaderFontSize sets the font size of the header rows in pixels.
func WithHeaderFontSize(px int) Option {
	return func(t *Table) {
		if px > 0 {
			t.headerFontSize = px
		}
	}
}

// NewTable creates an empty Table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		headerLineHeight: DefaultHeaderLineHeight,
		headerFontSize:   DefaultHeaderFontSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddColumn registers a column. NewColumn calls it; custom Column
// implementations must call it themselves.
func (t *Table) AddColumn(col Column) {
	t.columns = append(t.columns, col)
}

// AddLine registers a line. NewLine calls it; custom Line implementations
// must call it themselves.
func (t *Table) AddLine(line Line) {
	t.lines = append(t.lines, line)
}

// LineCount returns the number of registered lines.
func (t *Table) LineCount() int {
	return len(t.lines)
}

// ColumnCount returns the number of registered columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// HeaderLineHeight returns the header row height in pixels.
func (t *Table) HeaderLineHeight() int {
	return t.headerLineHeight
}

// HeaderFontSize returns the header font size in pixels.
func (t *Table) HeaderFontSize() int {
	return t.headerFontSize
}

// MinWidth returns the minimum width of the table in pixels: one pixel plus
// the minimum width of every column that declares one, plus one separator
// pixel per such column.
func (t *Table) MinWidth() int {
	width := 1
	for _, col := range t.columns {
		if cw, ok := col.MinWidth(); ok {
			width += cw + 1
		}
	}
	return width
}

// ToHTML renders the table as an HTML element tree rooted at a table
// element. Any error returned by a column, line or cell is returned as is.
func (t *Table) ToHTML() (*html.Node, error) {
	t.determineMaxIndents()

	table := element("table",
		attr{"align", "center"},
		attr{"cellspacing", "1"},
		attr{"cellpadding", "2"},
		attr{"width", "100%"},
		attr{"class", "tabback"},
	)
	tbody := element("tbody")
	table.AppendChild(tbody)

	headerStyle := fmt.Sprintf("height:%dpx; font-size:%dpx;", t.headerLineHeight, t.headerFontSize)
	for row := 1; row <= 2; row++ {
		tr := element("tr", attr{"class", "tabhead"}, attr{"style", headerStyle})
		for _, col := range t.columns {
			th, err := col.ToHTML(row)
			if err != nil {
				return nil, err
			}
			appendChild(tr, th)
		}
		tbody.AppendChild(tr)
	}

	for _, line := range t.lines {
		tr, err := line.ToHTML()
		if err != nil {
			return nil, err
		}
		appendChild(tbody, tr)
	}

	// Scrollbar columns take up extra height at the bottom. Pad all other
	// columns with an empty cell so the rows stay aligned.
	if t.hasScrollbar() {
		tr := element("tr")
		for _, col := range t.columns {
			if !col.Scrollbar() {
				tr.AppendChild(element("td"))
			}
		}
		tbody.AppendChild(tr)
	}

	return table, nil
}

// ToCSV renders the table as rows of strings. The first row holds the
// column headers, followed by one row per line.
func (t *Table) ToCSV() ([][]string, error) {
	header := []string{}
	for _, col := range t.columns {
		var err error
		if header, err = col.AppendCSV(header); err != nil {
			return nil, err
		}
	}

	csv := make([][]string, 0, len(t.lines)+1)
	csv = append(csv, header)
	for _, line := range t.lines {
		row, err := line.AppendCSV([]string{})
		if err != nil {
			return nil, err
		}
		csv = append(csv, row)
	}
	return csv, nil
}

// determineMaxIndents sets maxIndent to the largest line indentation.
func (t *Table) determineMaxIndents() {
	t.maxIndent = 0
	for _, line := range t.lines {
		if line.Indentation() > t.maxIndent {
			t.maxIndent = line.Indentation()
		}
	}
}

// hasScrollbar reports whether any column carries a scrollbar.
func (t *Table) hasScrollbar() bool {
	for _, col := range t.columns {
		if col.Scrollbar() {
			return true
		}
	}
	return false
}
