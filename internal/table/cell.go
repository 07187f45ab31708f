package table

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Alignment is the horizontal alignment of a cell's content.
type Alignment int

const (
	// AlignCenter centers the content. It is the default.
	AlignCenter Alignment = iota
	// AlignLeft aligns the content to the left edge.
	AlignLeft
	// AlignRight aligns the content to the right edge.
	AlignRight
)

// String returns the CSS name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

// ParseAlignment converts "left", "center" or "right" to an Alignment.
// The empty string yields AlignCenter.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignCenter, fmt.Errorf("unknown alignment %q", s)
	}
}

// Default cell attributes.
const (
	// DefaultPadding is the horizontal padding between frame and content.
	DefaultPadding = 3

	// DefaultCellClass is the CSS class of a cell without a category.
	DefaultCellClass = "tabcell"
)

// Special is a delegate that replaces a cell's own rendering. When a cell
// has a Special, every other attribute of the cell is ignored.
type Special interface {
	// HTML returns the element that stands in for the cell.
	HTML() (*html.Node, error)

	// CSV returns the value exported for the cell.
	CSV() (string, error)
}

// Cell is the format independent content of one table cell. It holds the
// display text, optional raw data and formatting attributes.
//
// A Cell is mutated by the report generator while a line is populated and
// only read during rendering.
type Cell struct {
	line       Line
	headerCell bool

	text    string
	hasText bool
	data    any

	category  string
	hidden    bool
	alignment Alignment
	padding   int
	indent    int
	hasIndent bool
	fontSize  int
	bold      bool
	width     int
	rows      int
	columns   int
	special   Special
}

// NewCell creates a cell with the given text and registers it with line.
// line may be nil for detached cells.
func NewCell(line Line, text string) *Cell {
	return newCell(line, text, false)
}

// NewHeaderCell creates a table header cell. It registers with line the
// same way NewCell does.
func NewHeaderCell(line Line, text string) *Cell {
	return newCell(line, text, true)
}

func newCell(line Line, text string, header bool) *Cell {
	c := &Cell{
		line:       line,
		headerCell: header,
		text:       text,
		hasText:    true,
		alignment:  AlignCenter,
		padding:    DefaultPadding,
		rows:       1,
		columns:    1,
	}
	if line != nil {
		line.AddCell(c)
	}
	return c
}

// Line returns the line the cell belongs to, or nil.
func (c *Cell) Line() Line { return c.line }

// IsHeader reports whether the cell is a table header cell.
func (c *Cell) IsHeader() bool { return c.headerCell }

// Text returns the display text.
func (c *Cell) Text() string { return c.text }

// SetText sets the display text.
func (c *Cell) SetText(s string) *Cell {
	c.text = s
	c.hasText = true
	return c
}

// ClearText removes the display text. A cell without text, data and
// special exports nothing to CSV.
func (c *Cell) ClearText() *Cell {
	c.text = ""
	c.hasText = false
	return c
}

// Data returns the raw data value.
func (c *Cell) Data() any { return c.data }

// SetData sets the raw data value. String data is preferred over the text
// in CSV output.
func (c *Cell) SetData(v any) *Cell {
	c.data = v
	return c
}

// Category returns the style class tag.
func (c *Cell) Category() string { return c.category }

// SetCategory sets the style class tag used as the CSS class.
func (c *Cell) SetCategory(s string) *Cell {
	c.category = s
	return c
}

// Hidden reports whether the cell is hidden.
func (c *Cell) Hidden() bool { return c.hidden }

// SetHidden hides or shows the cell. Hidden cells produce no HTML node.
func (c *Cell) SetHidden(hidden bool) *Cell {
	c.hidden = hidden
	return c
}

// Alignment returns the horizontal alignment.
func (c *Cell) Alignment() Alignment { return c.alignment }

// SetAlignment sets the horizontal alignment.
func (c *Cell) SetAlignment(a Alignment) *Cell {
	c.alignment = a
	return c
}

// Padding returns the horizontal padding in pixels.
func (c *Cell) Padding() int { return c.padding }

// SetPadding sets the horizontal padding in pixels.
func (c *Cell) SetPadding(px int) *Cell {
	c.padding = px
	return c
}

// Indent returns the tree depth of the content. The second result is false
// if no indent is set.
func (c *Cell) Indent() (int, bool) { return c.indent, c.hasIndent }

// SetIndent sets the tree depth of the content.
func (c *Cell) SetIndent(n int) *Cell {
	c.indent = n
	c.hasIndent = true
	return c
}

// ClearIndent removes the indent.
func (c *Cell) ClearIndent() *Cell {
	c.indent = 0
	c.hasIndent = false
	return c
}

// FontSize returns the font size override in pixels, 0 if unset.
func (c *Cell) FontSize() int { return c.fontSize }

// SetFontSize sets the font size override in pixels. 0 removes it.
func (c *Cell) SetFontSize(px int) *Cell {
	c.fontSize = px
	return c
}

// Bold reports whether the content is rendered bold.
func (c *Cell) Bold() bool { return c.bold }

// SetBold sets bold rendering.
func (c *Cell) SetBold(bold bool) *Cell {
	c.bold = bold
	return c
}

// Width returns the fixed width in pixels, 0 if unset.
func (c *Cell) Width() int { return c.width }

// SetWidth sets a fixed content width in pixels. 0 removes it.
func (c *Cell) SetWidth(px int) *Cell {
	c.width = px
	return c
}

// Rows returns the number of rows the cell spans.
func (c *Cell) Rows() int { return c.rows }

// SetRows sets the number of rows the cell spans.
func (c *Cell) SetRows(n int) *Cell {
	c.rows = n
	return c
}

// Columns returns the number of columns the cell spans.
func (c *Cell) Columns() int { return c.columns }

// SetColumns sets the number of columns the cell spans.
func (c *Cell) SetColumns(n int) *Cell {
	c.columns = n
	return c
}

// Special returns the rendering delegate, or nil.
func (c *Cell) Special() Special { return c.special }

// SetSpecial sets a delegate that replaces the cell's own rendering.
// nil restores the plain cell.
func (c *Cell) SetSpecial(s Special) *Cell {
	c.special = s
	return c
}

// Equal reports whether c and o are similar enough to be merged into one
// wider cell. Only text, alignment, padding, indent and category are
// compared; spans, width, data, font size and boldness are merge results.
func (c *Cell) Equal(o *Cell) bool {
	if o == nil {
		return false
	}
	return c.text == o.text &&
		c.hasText == o.hasText &&
		c.alignment == o.alignment &&
		c.padding == o.padding &&
		c.hasIndent == o.hasIndent &&
		c.indent == o.indent &&
		c.category == o.category
}

// ToHTML renders the cell as a td element. It returns a nil node for a
// hidden cell.
func (c *Cell) ToHTML() (*html.Node, error) {
	if c.hidden {
		return nil, nil
	}
	if c.special != nil {
		return c.special.HTML()
	}

	left, right := c.paddings()
	var style strings.Builder
	fmt.Fprintf(&style, "text-align:%s; ", c.alignment)
	fmt.Fprintf(&style, "padding-left:%dpx; padding-right:%dpx; ", left, right)
	if c.bold {
		style.WriteString("font-weight:bold; ")
	}
	if c.fontSize != 0 {
		fmt.Fprintf(&style, "font-size: %dpx; ", c.fontSize)
	}

	attrs := []attr{{"style", style.String()}}
	if c.rows > 1 {
		attrs = append(attrs, attr{"rowspan", fmt.Sprint(c.rows)})
	}
	if c.columns > 1 {
		attrs = append(attrs, attr{"colspan", fmt.Sprint(c.columns)})
	}
	class := DefaultCellClass
	if c.category != "" {
		class = c.category
	}
	attrs = append(attrs, attr{"class", class})

	td := element("td", attrs...)
	if c.width != 0 {
		div := element("div", attr{"style", fmt.Sprintf("width: %dpx", c.width)})
		div.AppendChild(text(c.text))
		td.AppendChild(div)
	} else {
		td.AppendChild(text(c.text))
	}
	return td, nil
}

// AppendCSV appends the CSV value of the cell to row. The special delegate
// wins over string data, which wins over the text. A cell with none of them
// appends nothing.
//
// Only left indentation survives in CSV; most consumers drop the trailing
// spaces right indentation would need.
func (c *Cell) AppendCSV(row []string) ([]string, error) {
	prefix := ""
	if c.hasIndent && c.alignment == AlignLeft && c.indent > 0 {
		prefix = strings.Repeat("  ", c.indent)
	}

	if c.special != nil {
		v, err := c.special.CSV()
		if err != nil {
			return row, err
		}
		return append(row, v), nil
	}
	if s, ok := c.data.(string); ok {
		return append(row, prefix+s), nil
	}
	if c.hasText {
		return append(row, prefix+c.text), nil
	}
	return row, nil
}

// paddings returns the left and right padding in pixels. Indented left
// aligned content is shifted right by its depth. Indented right aligned
// content keeps the unused depth of the deepest line as right padding.
func (c *Cell) paddings() (left, right int) {
	if !c.hasIndent || c.alignment == AlignCenter {
		return c.padding, c.padding
	}
	if c.alignment == AlignLeft {
		return c.padding + c.indent*indentWidth, c.padding
	}
	unused := c.maxIndent() - c.indent
	if unused < 0 {
		unused = 0
	}
	return c.padding, c.padding + unused*indentWidth
}

// maxIndent returns the largest indentation of the owning table. A
// detached cell uses its own indent.
func (c *Cell) maxIndent() int {
	if c.line == nil || c.line.Table() == nil {
		return c.indent
	}
	return c.line.Table().maxIndent
}
