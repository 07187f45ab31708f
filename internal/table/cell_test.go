package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

// renderNode renders n to a string for assertions.
func renderNode(t *testing.T, n *html.Node) string {
	t.Helper()

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		t.Fatalf("failed to render node: %v", err)
	}
	return buf.String()
}

// stubSpecial is a Special with fixed output.
type stubSpecial struct {
	csv string
	err error
}

func (s *stubSpecial) HTML() (*html.Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	return element("td", attr{"class", "special"}), nil
}

func (s *stubSpecial) CSV() (string, error) {
	return s.csv, s.err
}

// TestNewCell tests default attribute values.
func TestNewCell(t *testing.T) {
	t.Parallel()

	t.Run("sets documented defaults", func(t *testing.T) {
		t.Parallel()

		c := NewCell(nil, "text")
		if c.Text() != "text" {
			t.Errorf("expected text 'text', got %q", c.Text())
		}
		if c.Alignment() != AlignCenter {
			t.Errorf("expected center alignment, got %s", c.Alignment())
		}
		if c.Padding() != DefaultPadding {
			t.Errorf("expected padding %d, got %d", DefaultPadding, c.Padding())
		}
		if _, ok := c.Indent(); ok {
			t.Error("expected no indent")
		}
		if c.Rows() != 1 || c.Columns() != 1 {
			t.Errorf("expected 1x1 span, got %dx%d", c.Rows(), c.Columns())
		}
		if c.Hidden() || c.Bold() || c.IsHeader() {
			t.Error("expected hidden, bold and header to be false")
		}
		if c.Special() != nil || c.Data() != nil {
			t.Error("expected no special and no data")
		}
	})

	t.Run("registers with line", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable()
		line := NewLine(tbl)
		c1 := NewCell(line, "a")
		c2 := NewCell(line, "b")

		cells := line.Cells()
		if len(cells) != 2 || cells[0] != c1 || cells[1] != c2 {
			t.Fatalf("expected cells to register in order, got %v", cells)
		}
		if c1.Line() != line {
			t.Error("expected cell to reference its line")
		}
	})

	t.Run("header cell flag", func(t *testing.T) {
		t.Parallel()

		if !NewHeaderCell(nil, "h").IsHeader() {
			t.Error("expected header flag")
		}
	})
}

// TestCellEqual tests the merge equality oracle.
func TestCellEqual(t *testing.T) {
	t.Parallel()

	base := func() *Cell {
		return NewCell(nil, "x").
			SetAlignment(AlignLeft).
			SetPadding(4).
			SetIndent(2).
			SetCategory("taskcell1")
	}

	t.Run("ignores merge outputs", func(t *testing.T) {
		t.Parallel()

		a := base().SetData("raw").SetRows(2).SetColumns(3).SetWidth(100).SetFontSize(12).SetBold(true)
		b := base().SetData(42)
		if !a.Equal(b) || !b.Equal(a) {
			t.Error("expected cells to be equal")
		}
	})

	tests := []struct {
		name   string
		modify func(*Cell)
	}{
		{name: "text differs", modify: func(c *Cell) { c.SetText("y") }},
		{name: "alignment differs", modify: func(c *Cell) { c.SetAlignment(AlignRight) }},
		{name: "padding differs", modify: func(c *Cell) { c.SetPadding(5) }},
		{name: "indent differs", modify: func(c *Cell) { c.SetIndent(3) }},
		{name: "indent missing", modify: func(c *Cell) { c.ClearIndent() }},
		{name: "category differs", modify: func(c *Cell) { c.SetCategory("taskcell2") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := base()
			b := base()
			tt.modify(b)
			if a.Equal(b) {
				t.Error("expected cells to differ")
			}
		})
	}

	t.Run("nil is never equal", func(t *testing.T) {
		t.Parallel()

		if base().Equal(nil) {
			t.Error("expected nil to differ")
		}
	})
}

// TestCellPaddings tests the indent dependent padding computation.
func TestCellPaddings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		align     Alignment
		padding   int
		indent    int
		hasIndent bool
		maxIndent int
		wantLeft  int
		wantRight int
	}{
		{name: "left without indent", align: AlignLeft, padding: 3, wantLeft: 3, wantRight: 3},
		{name: "left indent 2", align: AlignLeft, padding: 3, indent: 2, hasIndent: true, maxIndent: 4, wantLeft: 19, wantRight: 3},
		{name: "left indent 0", align: AlignLeft, padding: 5, indent: 0, hasIndent: true, wantLeft: 5, wantRight: 5},
		{name: "right indent 1 of 3", align: AlignRight, padding: 3, indent: 1, hasIndent: true, maxIndent: 3, wantLeft: 3, wantRight: 19},
		{name: "right at max depth", align: AlignRight, padding: 2, indent: 3, hasIndent: true, maxIndent: 3, wantLeft: 2, wantRight: 2},
		{name: "right indent 0", align: AlignRight, padding: 3, indent: 0, hasIndent: true, maxIndent: 2, wantLeft: 3, wantRight: 19},
		{name: "center ignores indent", align: AlignCenter, padding: 3, indent: 4, hasIndent: true, maxIndent: 4, wantLeft: 3, wantRight: 3},
		{name: "right without indent", align: AlignRight, padding: 7, maxIndent: 3, wantLeft: 7, wantRight: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := NewTable()
			line := NewLine(tbl)
			c := NewCell(line, "v").SetAlignment(tt.align).SetPadding(tt.padding)
			if tt.hasIndent {
				c.SetIndent(tt.indent)
			}
			tbl.maxIndent = tt.maxIndent

			left, right := c.paddings()
			if left != tt.wantLeft || right != tt.wantRight {
				t.Errorf("expected paddings (%d, %d), got (%d, %d)", tt.wantLeft, tt.wantRight, left, right)
			}
		})
	}

	t.Run("detached right aligned cell has no extra padding", func(t *testing.T) {
		t.Parallel()

		c := NewCell(nil, "v").SetAlignment(AlignRight).SetIndent(2)
		left, right := c.paddings()
		if left != 3 || right != 3 {
			t.Errorf("expected paddings (3, 3), got (%d, %d)", left, right)
		}
	})
}

// TestCellToHTML tests HTML rendering of a single cell.
func TestCellToHTML(t *testing.T) {
	t.Parallel()

	t.Run("plain cell", func(t *testing.T) {
		t.Parallel()

		n, err := NewCell(nil, "A").SetAlignment(AlignLeft).ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `<td style="text-align:left; padding-left:3px; padding-right:3px; " class="tabcell">A</td>`
		if got := renderNode(t, n); got != want {
			t.Errorf("unexpected markup\nwant: %s\n got: %s", want, got)
		}
	})

	t.Run("bold, font size, spans and category", func(t *testing.T) {
		t.Parallel()

		c := NewCell(nil, "B").
			SetBold(true).
			SetFontSize(12).
			SetRows(2).
			SetColumns(3).
			SetCategory("taskcell1")
		n, err := c.ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `<td style="text-align:center; padding-left:3px; padding-right:3px; font-weight:bold; font-size: 12px; " rowspan="2" colspan="3" class="taskcell1">B</td>`
		if got := renderNode(t, n); got != want {
			t.Errorf("unexpected markup\nwant: %s\n got: %s", want, got)
		}
	})

	t.Run("spans of one are omitted", func(t *testing.T) {
		t.Parallel()

		n, err := NewCell(nil, "C").ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Attr(n, "rowspan") != "" || Attr(n, "colspan") != "" {
			t.Error("expected no span attributes")
		}
	})

	t.Run("fixed width wraps text in div", func(t *testing.T) {
		t.Parallel()

		n, err := NewCell(nil, "wide").SetWidth(120).ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := renderNode(t, n)
		if !strings.Contains(got, `<div style="width: 120px">wide</div>`) {
			t.Errorf("expected width wrapper, got %s", got)
		}
	})

	t.Run("text is escaped", func(t *testing.T) {
		t.Parallel()

		n, err := NewCell(nil, "a<b>&c").ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := renderNode(t, n); !strings.Contains(got, "a&lt;b&gt;&amp;c") {
			t.Errorf("expected escaped text, got %s", got)
		}
	})

	t.Run("hidden cell renders nothing", func(t *testing.T) {
		t.Parallel()

		c := NewCell(nil, "secret").SetHidden(true).SetSpecial(&stubSpecial{csv: "s"}).SetBold(true)
		n, err := c.ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != nil {
			t.Errorf("expected nil node, got %s", renderNode(t, n))
		}
	})

	t.Run("special replaces rendering", func(t *testing.T) {
		t.Parallel()

		c := NewCell(nil, "ignored").SetAlignment(AlignRight).SetBold(true).SetSpecial(&stubSpecial{})
		n, err := c.ToHTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := renderNode(t, n); got != `<td class="special"></td>` {
			t.Errorf("expected special markup, got %s", got)
		}
	})

	t.Run("special error propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := NewError("broken chart")
		_, err := NewCell(nil, "x").SetSpecial(&stubSpecial{err: wantErr}).ToHTML()
		if !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})
}

// TestCellAppendCSV tests CSV export priority and indentation.
func TestCellAppendCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func() *Cell
		want  []string
	}{
		{
			name:  "text only",
			setup: func() *Cell { return NewCell(nil, "text") },
			want:  []string{"pre", "text"},
		},
		{
			name:  "string data wins over text",
			setup: func() *Cell { return NewCell(nil, "1.5d").SetData("1.5") },
			want:  []string{"pre", "1.5"},
		},
		{
			name:  "non-string data falls back to text",
			setup: func() *Cell { return NewCell(nil, "42").SetData(42) },
			want:  []string{"pre", "42"},
		},
		{
			name: "special wins over data",
			setup: func() *Cell {
				return NewCell(nil, "text").SetData("data").SetSpecial(&stubSpecial{csv: "special"})
			},
			want: []string{"pre", "special"},
		},
		{
			name:  "special is not indented",
			setup: func() *Cell { return NewCell(nil, "t").SetAlignment(AlignLeft).SetIndent(2).SetSpecial(&stubSpecial{csv: "s"}) },
			want:  []string{"pre", "s"},
		},
		{
			name:  "nothing set appends nothing",
			setup: func() *Cell { return NewCell(nil, "x").ClearText() },
			want:  []string{"pre"},
		},
		{
			name:  "empty text still appends",
			setup: func() *Cell { return NewCell(nil, "") },
			want:  []string{"pre", ""},
		},
		{
			name:  "left indent prefixes two spaces per level",
			setup: func() *Cell { return NewCell(nil, "task").SetAlignment(AlignLeft).SetIndent(2) },
			want:  []string{"pre", "    task"},
		},
		{
			name:  "left indent applies to data",
			setup: func() *Cell { return NewCell(nil, "task").SetAlignment(AlignLeft).SetIndent(1).SetData("raw") },
			want:  []string{"pre", "  raw"},
		},
		{
			name:  "right indent is dropped",
			setup: func() *Cell { return NewCell(nil, "9").SetAlignment(AlignRight).SetIndent(3) },
			want:  []string{"pre", "9"},
		},
		{
			name:  "center indent is dropped",
			setup: func() *Cell { return NewCell(nil, "9").SetIndent(3) },
			want:  []string{"pre", "9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.setup().AppendCSV([]string{"pre"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("row mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("special error propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("export failed")
		_, err := NewCell(nil, "x").SetSpecial(&stubSpecial{err: wantErr}).AppendCSV(nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})
}

// TestParseAlignment tests alignment parsing.
func TestParseAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Alignment
		wantErr bool
	}{
		{in: "left", want: AlignLeft},
		{in: "Right", want: AlignRight},
		{in: " center ", want: AlignCenter},
		{in: "", want: AlignCenter},
		{in: "justify", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAlignment(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestLink tests the hyperlink special.
func TestLink(t *testing.T) {
	t.Parallel()

	c := NewCell(nil, "ignored").SetSpecial(NewLink("https://example.com/a?b=1&c=2", "docs"))

	n, err := c.ToHTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<td class="tabcell"><a href="https://example.com/a?b=1&amp;c=2">docs</a></td>`
	if got := renderNode(t, n); got != want {
		t.Errorf("unexpected markup\nwant: %s\n got: %s", want, got)
	}

	row, err := c.AppendCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"docs"}, row); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}
