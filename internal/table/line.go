package table

import (
	"fmt"

	"golang.org/x/net/html"
)

// DefaultLineHeight is the height of a body row in pixels.
const DefaultLineHeight = 21

// ReportLine is one row of a table. Its cells register themselves through
// NewCell.
type ReportLine struct {
	table       *Table
	cells       []*Cell
	indentation int
	height      int
}

// NewLine creates an empty line and registers it with t.
func NewLine(t *Table) *ReportLine {
	line := &ReportLine{
		table:  t,
		height: DefaultLineHeight,
	}
	if t != nil {
		t.AddLine(line)
	}
	return line
}

// Table returns the owning table.
func (l *ReportLine) Table() *Table { return l.table }

// AddCell appends c to the line.
func (l *ReportLine) AddCell(c *Cell) {
	l.cells = append(l.cells, c)
}

// Cells returns the cells in display order.
func (l *ReportLine) Cells() []*Cell { return l.cells }

// Indentation returns the tree depth of the line.
func (l *ReportLine) Indentation() int { return l.indentation }

// SetIndentation sets the tree depth of the line.
func (l *ReportLine) SetIndentation(n int) *ReportLine {
	l.indentation = n
	return l
}

// Height returns the row height in pixels.
func (l *ReportLine) Height() int { return l.height }

// SetHeight sets the row height in pixels.
func (l *ReportLine) SetHeight(px int) *ReportLine {
	l.height = px
	return l
}

// ToHTML renders the line as a tr element. Hidden cells are skipped.
func (l *ReportLine) ToHTML() (*html.Node, error) {
	tr := element("tr",
		attr{"class", "tabline"},
		attr{"style", fmt.Sprintf("height:%dpx;", l.height)},
	)
	for _, c := range l.cells {
		td, err := c.ToHTML()
		if err != nil {
			return nil, err
		}
		appendChild(tr, td)
	}
	return tr, nil
}

// AppendCSV appends the CSV value of every cell to row.
func (l *ReportLine) AppendCSV(row []string) ([]string, error) {
	var err error
	for _, c := range l.cells {
		if row, err = c.AppendCSV(row); err != nil {
			return nil, err
		}
	}
	return row, nil
}
