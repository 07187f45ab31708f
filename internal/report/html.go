package report

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/reporttable/internal/table"
)

// DefaultStylesheet styles the CSS classes the table package emits.
const DefaultStylesheet = `body { font-family: sans-serif; }
.tabback { background-color: #9a9a9a; }
.tabhead { background-color: #7a7a7a; color: #ffffff; font-weight: bold; text-align: center; }
.tabline { background-color: #ffffff; }
.tabcell { background-color: #ffffff; white-space: nowrap; overflow: hidden; }
`

// HTMLWriter outputs tables as HTML markup rendered from Table.ToHTML.
// By default only the table element is written so the output can be
// embedded into other pages.
type HTMLWriter struct {
	baseWriter

	// document wraps the table in a complete page.
	document bool

	// title is the page title and heading of a complete page.
	title string

	// stylesheet is embedded into the head of a complete page.
	stylesheet string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithDocument wraps the table in a complete HTML page. A non-empty title
// becomes the page title and a heading above the table.
func WithDocument(title string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.document = true
		w.title = title
	}
}

// WithStylesheet replaces the stylesheet of a complete page.
func WithStylesheet(css string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.stylesheet = css
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		stylesheet: DefaultStylesheet,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the table and writes the markup followed by a newline.
func (w *HTMLWriter) Write(t *table.Table) (int, error) {
	root, err := t.ToHTML()
	if err != nil {
		return 0, err
	}
	if w.document {
		root = w.page(root)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')

	return w.output.Write(buf.Bytes())
}

// page builds a complete document around the table element.
func (w *HTMLWriter) page(tableNode *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := newElement(atom.Html)
	doc.AppendChild(root)

	head := newElement(atom.Head)
	root.AppendChild(head)
	meta := newElement(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if w.title != "" {
		title := newElement(atom.Title)
		title.AppendChild(&html.Node{Type: html.TextNode, Data: w.title})
		head.AppendChild(title)
	}
	if w.stylesheet != "" {
		style := newElement(atom.Style)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: w.stylesheet})
		head.AppendChild(style)
	}

	body := newElement(atom.Body)
	root.AppendChild(body)
	if w.title != "" {
		h1 := newElement(atom.H1)
		h1.AppendChild(&html.Node{Type: html.TextNode, Data: w.title})
		body.AppendChild(h1)
	}
	body.AppendChild(tableNode)

	return doc
}

// newElement creates an element node for a known tag.
func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
