package table

import (
	"fmt"

	"golang.org/x/net/html"
)

// ReportColumn is the header of one table column. It renders a two-row
// header: a title cell and a secondary cell below it (sub title, unit or
// sort hint).
type ReportColumn struct {
	table     *Table
	header1   *Cell
	header2   *Cell
	scrollbar bool
}

// NewColumn creates a column with the given title and registers it with t.
func NewColumn(t *Table, title string) *ReportColumn {
	col := &ReportColumn{
		table:   t,
		header1: NewHeaderCell(nil, title),
		header2: NewHeaderCell(nil, ""),
	}
	if t != nil {
		t.AddColumn(col)
	}
	return col
}

// Header1 returns the cell of the first header row.
func (col *ReportColumn) Header1() *Cell { return col.header1 }

// Header2 returns the cell of the second header row.
func (col *ReportColumn) Header2() *Cell { return col.header2 }

// SetScrollbar marks the column as carrying a scrollbar.
func (col *ReportColumn) SetScrollbar(scrollbar bool) *ReportColumn {
	col.scrollbar = scrollbar
	return col
}

// Scrollbar reports whether the column carries a scrollbar.
func (col *ReportColumn) Scrollbar() bool { return col.scrollbar }

// MinWidth returns the fixed width of the title cell, if any.
func (col *ReportColumn) MinWidth() (int, bool) {
	if w := col.header1.Width(); w > 0 {
		return w, true
	}
	return 0, false
}

// ToHTML renders the header cell of row 1 or 2.
func (col *ReportColumn) ToHTML(row int) (*html.Node, error) {
	switch row {
	case 1:
		return col.header1.ToHTML()
	case 2:
		return col.header2.ToHTML()
	default:
		return nil, NewFatalError(fmt.Sprintf("column %q has no header row %d", col.header1.Text(), row))
	}
}

// AppendCSV appends the column title to row.
func (col *ReportColumn) AppendCSV(row []string) ([]string, error) {
	return col.header1.AppendCSV(row)
}
