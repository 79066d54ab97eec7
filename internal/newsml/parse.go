package newsml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

// Parse reads one markup document. Malformed input yields *domain.ParseError.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}

	doc := &Document{}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			doc.Root = convert(n)
			break
		}
	}
	if doc.Root == nil {
		return nil, &domain.ParseError{Err: errors.New("no root element")}
	}

	return doc, nil
}

// ParseBytes is a convenience wrapper over Parse.
func ParseBytes(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &domain.ParseError{Err: fmt.Errorf("empty document")}
	}
	return Parse(bytes.NewReader(raw))
}

func convert(n *xmlquery.Node) *Element {
	el := &Element{
		Name:  n.Data,
		Attrs: make(map[string]string, len(n.Attr)),
	}
	for _, a := range n.Attr {
		el.Attrs[a.Name.Local] = a.Value
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			el.Children = append(el.Children, convert(c))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			el.Children = append(el.Children, Text{Value: c.Data})
		}
	}

	return el
}
