// Package article turns extracted wire articles into measured, classified
// and persistable records.
package article

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

// MaxAuthorsLength is the longest trailer still treated as an author credit.
const MaxAuthorsLength = 22

const paragraphBreak = "\n\n"

var agencyTag = regexp.MustCompile(`\s(\([^()\n]+\))`)

var awpTags = map[string]struct{}{
	"(AWP)":               {},
	"(AWP INTERNATIONAL)": {},
}

// Assemble builds the canonical text variants of an article.
func Assemble(a domain.ExtractedArticle) domain.AssembledText {
	body := strings.TrimSpace(a.Body)

	var sb strings.Builder
	sb.WriteString(a.Title)
	sb.WriteString(paragraphBreak)
	if a.HasByline {
		sb.WriteString(a.Byline)
		sb.WriteString(paragraphBreak)
	}
	sb.WriteString(body)

	return domain.AssembledText{
		Body:         body,
		Complete:     sb.String(),
		Authors:      authorsLine(body),
		CopyrightAWP: copyrightAWP(body, a.Title),
	}
}

// authorsLine returns the trailer after the last paragraph break when it is
// short enough to be an author credit.
func authorsLine(body string) string {
	idx := strings.LastIndex(body, paragraphBreak)
	if idx < 0 {
		return ""
	}
	candidate := strings.TrimSpace(body[idx+len(paragraphBreak):])
	if utf8.RuneCountInString(candidate) > MaxAuthorsLength {
		return ""
	}
	return candidate
}

// copyrightAWP inspects the first agency tag of the body, or of the title
// when the body has none.
func copyrightAWP(body, title string) bool {
	for _, text := range []string{body, title} {
		m := agencyTag.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		_, ok := awpTags[strings.ToUpper(m[1])]
		return ok
	}
	return false
}
