package table

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attr is a key/value pair used to build element attributes in order.
type attr struct {
	key string
	val string
}

// element creates an element node. Attributes keep the given order so the
// rendered markup is stable.
func element(tag string, attrs ...attr) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.key, Val: a.val})
	}
	return n
}

// text creates a text node.
func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendChild attaches child to parent. A nil child is skipped, which is how
// hidden cells drop out of a row.
func appendChild(parent, child *html.Node) {
	if child == nil {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
}

// Attr returns the value of the attribute key on n, or "" if n is nil or
// has no such attribute.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
