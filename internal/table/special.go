package table

import "golang.org/x/net/html"

// Link is a Special that renders a hyperlink. CSV output carries the link
// text only.
type Link struct {
	Href string
	Text string
}

// NewLink returns a Link special.
func NewLink(href, text string) *Link {
	return &Link{Href: href, Text: text}
}

// HTML returns a td containing an anchor element.
func (l *Link) HTML() (*html.Node, error) {
	td := element("td", attr{"class", DefaultCellClass})
	a := element("a", attr{"href", l.Href})
	a.AppendChild(text(l.Text))
	td.AppendChild(a)
	return td, nil
}

// CSV returns the link text.
func (l *Link) CSV() (string, error) {
	return l.Text, nil
}
