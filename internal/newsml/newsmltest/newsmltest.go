// Package newsmltest renders NewsML fixtures for tests.
package newsmltest

import (
	"bytes"
	"fmt"
	"html"
)

// Property is one FormalName/Value pair in DescriptiveMetadata.
type Property struct {
	Name  string
	Value string
}

// Doc describes a synthetic wire document. Body is raw markup placed
// inside body.content; OmitBody drops the body.content element entirely.
type Doc struct {
	Headline     string
	Byline       string
	FirstCreated string
	Language     string
	Properties   []Property
	Body         string
	OmitBody     bool
}

// Wires is a shortcut for Wire properties.
func Wires(codes ...string) []Property {
	props := make([]Property, len(codes))
	for i, c := range codes {
		props[i] = Property{Name: "Wire", Value: c}
	}
	return props
}

// Bytes renders the document.
func (d Doc) Bytes() []byte {
	if d.FirstCreated == "" {
		d.FirstCreated = "20240301T083000+0100"
	}
	if d.Language == "" {
		d.Language = "de"
	}

	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<NewsML><NewsItem>\n")
	fmt.Fprintf(&b, "<NewsManagement><FirstCreated>%s</FirstCreated></NewsManagement>\n", d.FirstCreated)
	b.WriteString("<NewsComponent><NewsLines>\n")
	fmt.Fprintf(&b, "<HeadLine>%s</HeadLine>\n", html.EscapeString(d.Headline))
	if d.Byline != "" {
		fmt.Fprintf(&b, `<NewsLine><NewsLineType FormalName="ByLine"/><NewsLineText>%s</NewsLineText></NewsLine>`+"\n", html.EscapeString(d.Byline))
	}
	b.WriteString("</NewsLines>\n<DescriptiveMetadata>\n")
	fmt.Fprintf(&b, `<Language FormalName="%s"/>`+"\n", d.Language)
	for _, p := range d.Properties {
		fmt.Fprintf(&b, `<Property FormalName="%s" Value="%s"/>`+"\n", p.Name, html.EscapeString(p.Value))
	}
	b.WriteString("</DescriptiveMetadata>\n<ContentItem><DataContent><body>\n")
	if !d.OmitBody {
		fmt.Fprintf(&b, "<body.content>%s</body.content>\n", d.Body)
	}
	b.WriteString("</body></DataContent></ContentItem></NewsComponent></NewsItem></NewsML>\n")
	return b.Bytes()
}

// Paragraphs renders each string as a <p> separated by empty paragraphs.
func Paragraphs(texts ...string) string {
	var b bytes.Buffer
	for i, t := range texts {
		if i > 0 {
			b.WriteString("<p/>")
		}
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(t))
	}
	return b.String()
}
