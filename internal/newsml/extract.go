package newsml

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

const (
	paragraphBreak  = "\n\n"
	timestampLayout = "20060102T150405"
	byLineName      = "ByLine"
)

var (
	guillemets    = strings.NewReplacer("<<", `"`, ">>", `"`)
	embeddedTable = regexp.MustCompile(`(?s)\[\[.*?\]\]`)
)

// Extract walks a parsed document and builds the raw article.
func Extract(doc *Document) (domain.ExtractedArticle, error) {
	var article domain.ExtractedArticle

	title, err := extractTitle(doc)
	if err != nil {
		return article, err
	}
	article.Title = title

	article.Byline, article.HasByline = extractByline(doc)

	body, err := extractBody(doc)
	if err != nil {
		return article, err
	}
	article.Body = body.text
	article.TableContained = body.table
	article.ParagraphCount = body.paragraphs
	article.FirstParagraphChars = body.firstChars

	if err := extractProperties(doc, &article); err != nil {
		return article, err
	}

	if article.PublishedAt, err = extractTimestamp(doc); err != nil {
		return article, err
	}

	lang, ok := doc.First("Language")
	if !ok {
		return article, &domain.ExtractionError{Field: "Language"}
	}
	article.Language = lang.FormalName()

	return article, nil
}

func extractTitle(doc *Document) (string, error) {
	headline, ok := doc.First("HeadLine")
	if !ok {
		return "", &domain.ExtractionError{Field: "HeadLine"}
	}
	title := headline.InnerText()
	if title == "" {
		return "", &domain.ExtractionError{Field: "HeadLine", Reason: "no text"}
	}
	return guillemets.Replace(title), nil
}

// extractByline keeps the last ByLine match that carries text.
func extractByline(doc *Document) (string, bool) {
	var (
		byline string
		found  bool
	)
	doc.Walk(func(el, parent *Element, idx int) {
		if el.Name != "NewsLineType" || el.FormalName() != byLineName {
			return
		}
		sib, ok := nextSibling(parent, idx)
		if !ok {
			return
		}
		sibEl, ok := sib.(*Element)
		if !ok {
			return
		}
		if text, ok := sibEl.FirstText(); ok {
			byline, found = text, true
		}
	})
	return byline, found
}

// bodyState is the accumulator threaded through the body.content children.
type bodyState struct {
	text       string
	table      bool
	paragraphs int
	firstChars int
}

func (s bodyState) step(el *Element) bodyState {
	switch el.Name {
	case "pre":
		s.table = true
	case "p", "h3":
		content := el.InnerText()
		if content == "" {
			if el.Name == "p" && !strings.HasSuffix(s.text, paragraphBreak) {
				s.text += paragraphBreak
			}
			return s
		}
		s.text += content
		s.paragraphs++
		if s.paragraphs == 1 {
			s.firstChars = utf8.RuneCountInString(s.text)
		}
	}
	return s
}

func extractBody(doc *Document) (bodyState, error) {
	content, ok := doc.First("body.content")
	if !ok {
		return bodyState{}, &domain.ExtractionError{Field: "body.content"}
	}

	var state bodyState
	for _, child := range content.Children {
		if el, ok := child.(*Element); ok {
			state = state.step(el)
		}
	}

	state.text = guillemets.Replace(state.text)

	if embeddedTable.MatchString(state.text) {
		state.text = embeddedTable.ReplaceAllString(state.text, "")
		state.table = true
	}

	return state, nil
}

func extractProperties(doc *Document, article *domain.ExtractedArticle) error {
	for _, prop := range doc.ElementsByName("Property") {
		var target *[]string
		switch prop.FormalName() {
		case "FullName":
			target = &article.CompanyNames
		case "Company":
			target = &article.CompanyIDs
		case "Wire":
			target = &article.Wires
		case "Subject":
			target = &article.Subjects
		case "Industry":
			target = &article.Industries
		case "Country":
			target = &article.Countries
		default:
			continue
		}

		value, ok := prop.Attr("Value")
		if !ok {
			return &domain.ExtractionError{Field: "Property " + prop.FormalName(), Reason: "Value attribute missing"}
		}
		*target = append(*target, value)
	}
	return nil
}

func extractTimestamp(doc *Document) (time.Time, error) {
	el, ok := doc.First("FirstCreated")
	if !ok {
		return time.Time{}, &domain.ExtractionError{Field: "FirstCreated"}
	}

	raw := strings.TrimSpace(el.InnerText())
	if len(raw) < len(timestampLayout) {
		return time.Time{}, &domain.ExtractionError{Field: "FirstCreated", Reason: "timestamp too short: " + raw}
	}

	ts, err := time.Parse(timestampLayout, raw[:len(timestampLayout)])
	if err != nil {
		return time.Time{}, &domain.ExtractionError{Field: "FirstCreated", Reason: err.Error()}
	}
	return ts, nil
}
