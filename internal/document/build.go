package document

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/reporttable/internal/table"
)

// Validate checks the document for problems. A fatal *table.Error is
// returned as soon as one is found. Otherwise all non-fatal problems are
// joined into one error; nil means the document is clean.
//
// Non-fatal problems do not prevent Build: the offending attribute falls
// back to its default.
func (d *Document) Validate() error {
	if len(d.Columns) == 0 {
		return table.NewFatalError("document has no columns")
	}
	if d.HeaderLineHeight < 0 || d.HeaderFontSize < 0 {
		return table.NewFatalError("header metrics must not be negative")
	}

	var errs []error
	for i, col := range d.Columns {
		if col.ID == "" && col.Title == "" {
			errs = append(errs, table.NewError(fmt.Sprintf("column %d has neither id nor title", i+1)))
		}
		if _, err := table.ParseAlignment(col.Align); err != nil {
			errs = append(errs, table.Wrap(fmt.Errorf("column %d: %w", i+1, err), false))
		}
		if col.MinWidth < 0 {
			errs = append(errs, table.NewError(fmt.Sprintf("column %d: negative minWidth %d", i+1, col.MinWidth)))
		}
	}

	for i, line := range d.Lines {
		if line.Indentation < 0 {
			errs = append(errs, table.NewError(fmt.Sprintf("line %d: negative indentation %d", i+1, line.Indentation)))
		}
		span := 0
		for j, cell := range line.Cells {
			errs = append(errs, cell.validate(i+1, j+1)...)
			if !cell.Hidden {
				span += max(cell.Columns, 1)
			}
		}
		if span > len(d.Columns) {
			errs = append(errs, table.NewError(fmt.Sprintf("line %d spans %d columns, table has %d", i+1, span, len(d.Columns))))
		}
	}

	return errors.Join(errs...)
}

// validate returns the non-fatal problems of a single cell.
func (c CellSpec) validate(line, cell int) []error {
	var errs []error
	where := fmt.Sprintf("line %d cell %d", line, cell)
	if _, err := table.ParseAlignment(c.Align); err != nil {
		errs = append(errs, table.Wrap(fmt.Errorf("%s: %w", where, err), false))
	}
	if c.Padding != nil && *c.Padding < 0 {
		errs = append(errs, table.NewError(fmt.Sprintf("%s: negative padding %d", where, *c.Padding)))
	}
	if c.Indent != nil && *c.Indent < 0 {
		errs = append(errs, table.NewError(fmt.Sprintf("%s: negative indent %d", where, *c.Indent)))
	}
	if c.Rows < 0 || c.Columns < 0 {
		errs = append(errs, table.NewError(fmt.Sprintf("%s: negative span %dx%d", where, c.Rows, c.Columns)))
	}
	if c.FontSize < 0 || c.Width < 0 {
		errs = append(errs, table.NewError(fmt.Sprintf("%s: negative font size or width", where)))
	}
	return errs
}

// Build validates the document and constructs the table it describes.
// A fatal validation error yields a nil table. Non-fatal problems are
// returned alongside the table.
func (d *Document) Build() (*table.Table, error) {
	verr := d.Validate()
	if table.IsFatal(verr) {
		return nil, verr
	}

	t := table.NewTable(
		table.WithHeaderLineHeight(d.HeaderLineHeight),
		table.WithHeaderFontSize(d.HeaderFontSize),
	)

	for _, spec := range d.Columns {
		col := table.NewColumn(t, spec.title())
		col.SetScrollbar(spec.Scrollbar)
		col.Header2().SetText(spec.Subtitle)
		if spec.MinWidth > 0 {
			col.Header1().SetWidth(spec.MinWidth)
		}
		if align, err := table.ParseAlignment(spec.Align); err == nil {
			col.Header1().SetAlignment(align)
			col.Header2().SetAlignment(align)
		}
	}

	for _, spec := range d.Lines {
		line := table.NewLine(t).SetIndentation(max(spec.Indentation, 0))
		if spec.Height > 0 {
			line.SetHeight(spec.Height)
		}
		for _, cs := range spec.Cells {
			cs.apply(table.NewCell(line, ""))
		}
	}

	return t, verr
}

// title returns the display title of the column. A Caser keeps state, so
// each call gets its own.
func (c ColumnSpec) title() string {
	if c.Title != "" {
		return c.Title
	}
	id := strings.NewReplacer("_", " ", "-", " ").Replace(c.ID)
	return cases.Title(language.English).String(id)
}

// apply copies the spec onto cell, skipping invalid values.
func (c CellSpec) apply(cell *table.Cell) {
	if c.Text != nil {
		cell.SetText(*c.Text)
	} else if c.Data == nil && c.Link == "" {
		cell.ClearText()
	}
	if c.Data != nil {
		cell.SetData(c.Data)
		if c.Text == nil {
			cell.SetText(fmt.Sprint(c.Data))
		}
	}
	cell.SetCategory(c.Category)
	cell.SetHidden(c.Hidden)
	if align, err := table.ParseAlignment(c.Align); err == nil {
		cell.SetAlignment(align)
	}
	if c.Padding != nil && *c.Padding >= 0 {
		cell.SetPadding(*c.Padding)
	}
	if c.Indent != nil && *c.Indent >= 0 {
		cell.SetIndent(*c.Indent)
	}
	if c.FontSize > 0 {
		cell.SetFontSize(c.FontSize)
	}
	cell.SetBold(c.Bold)
	if c.Width > 0 {
		cell.SetWidth(c.Width)
	}
	if c.Rows > 1 {
		cell.SetRows(c.Rows)
	}
	if c.Columns > 1 {
		cell.SetColumns(c.Columns)
	}
	if c.Link != "" {
		// A bare link shows its target.
		if c.Text == nil && c.Data == nil {
			cell.SetText(c.Link)
		}
		cell.SetSpecial(table.NewLink(c.Link, cell.Text()))
	}
}
