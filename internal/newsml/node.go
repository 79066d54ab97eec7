// Package newsml turns NewsML wire documents into extracted articles.
package newsml

import "strings"

// Node is either an *Element or a Text.
type Node interface {
	node()
}

// Element is a markup element with its attributes and ordered children.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Node
}

// Text is character data between elements.
type Text struct {
	Value string
}

func (*Element) node() {}
func (Text) node()     {}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// FormalName is the semantic selector attribute used throughout NewsML.
func (e *Element) FormalName() string {
	return e.Attrs["FormalName"]
}

// InnerText concatenates every descendant text node.
func (e *Element) InnerText() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, child := range e.Children {
		switch n := child.(type) {
		case Text:
			sb.WriteString(n.Value)
		case *Element:
			n.writeText(sb)
		}
	}
}

// FirstText returns the value of the first child when it is a text node.
func (e *Element) FirstText() (string, bool) {
	if len(e.Children) == 0 {
		return "", false
	}
	t, ok := e.Children[0].(Text)
	return t.Value, ok
}

// Document is a parsed markup tree.
type Document struct {
	Root *Element
}

// visit walks the tree depth-first in document order. fn receives the
// element, its parent and its index among the parent's children.
func visit(parent *Element, fn func(el, parent *Element, idx int)) {
	for i, child := range parent.Children {
		el, ok := child.(*Element)
		if !ok {
			continue
		}
		fn(el, parent, i)
		visit(el, fn)
	}
}

// Walk calls fn for every element, the root included, in document order.
func (d *Document) Walk(fn func(el, parent *Element, idx int)) {
	if d == nil || d.Root == nil {
		return
	}
	fn(d.Root, nil, 0)
	visit(d.Root, fn)
}

// ElementsByName returns all elements with the given name in document order.
func (d *Document) ElementsByName(name string) []*Element {
	var out []*Element
	d.Walk(func(el, _ *Element, _ int) {
		if el.Name == name {
			out = append(out, el)
		}
	})
	return out
}

// First returns the first element with the given name.
func (d *Document) First(name string) (*Element, bool) {
	var found *Element
	d.Walk(func(el, _ *Element, _ int) {
		if found == nil && el.Name == name {
			found = el
		}
	})
	return found, found != nil
}

// nextSibling returns the node after idx in parent, skipping
// whitespace-only text.
func nextSibling(parent *Element, idx int) (Node, bool) {
	if parent == nil {
		return nil, false
	}
	for _, n := range parent.Children[idx+1:] {
		if t, ok := n.(Text); ok && strings.TrimSpace(t.Value) == "" {
			continue
		}
		return n, true
	}
	return nil, false
}
