package article

import (
	"regexp"
	"strings"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

const (
	repetitionByline      = "(répétition)"
	shortParagraphChars   = 160
	minTableArticleWords  = 40
	flashPrefix           = "***"
	subjectAdministrative = "SER"
	subjectCalendar       = "CAL"
)

// DefaultPermittedWires are the wires whose articles enter the archive.
var DefaultPermittedWires = []string{"P", "K", "N"}

var repetitionTitle = regexp.MustCompile(`(?i)^\**wdh\s?\d?[/:]?\s?`)

// Input bundles everything a rule may look at.
type Input struct {
	Article domain.ExtractedArticle
	Text    domain.AssembledText
	Metrics domain.Metrics
}

// Rule is one editorial inclusion check; Match reports a rejection.
type Rule struct {
	Reason domain.Reason
	Match  func(in Input) bool
}

// Classifier evaluates every rule independently.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the rule catalog. An empty wire list falls back to
// DefaultPermittedWires.
func NewClassifier(permittedWires []string) *Classifier {
	if len(permittedWires) == 0 {
		permittedWires = DefaultPermittedWires
	}
	return &Classifier{rules: Rules(permittedWires)}
}

// Rules returns the ordered rule catalog.
func Rules(permittedWires []string) []Rule {
	permitted := make(map[string]struct{}, len(permittedWires))
	for _, w := range permittedWires {
		permitted[w] = struct{}{}
	}

	return []Rule{
		{Reason: domain.ReasonRepetition, Match: func(in Input) bool {
			return repetitionTitle.MatchString(in.Article.Title) ||
				(in.Article.HasByline && in.Article.Byline == repetitionByline)
		}},
		{Reason: domain.ReasonFlash, Match: func(in Input) bool {
			return strings.HasPrefix(in.Article.Title, flashPrefix)
		}},
		{Reason: domain.ReasonTabularTitle, Match: func(in Input) bool {
			return titleContainsAny(in.Article.Title, "TABELLE", "TABLEAU")
		}},
		{Reason: domain.ReasonTableDominant, Match: func(in Input) bool {
			a := in.Article
			if !a.TableContained {
				return false
			}
			return (a.ParagraphCount == 1 && a.FirstParagraphChars < shortParagraphChars) ||
				in.Metrics.WordCount < minTableArticleWords
		}},
		{Reason: domain.ReasonNetAssetValue, Match: func(in Input) bool {
			return titleContainsAny(in.Article.Title, "INNERER WERT", "INNERE WERTE")
		}},
		{Reason: domain.ReasonAdministrative, Match: func(in Input) bool {
			return contains(in.Article.Subjects, subjectAdministrative) ||
				titleContainsAny(in.Article.Title, "ABKÜRZUNGEN", "ABRÉVIATIONS")
		}},
		{Reason: domain.ReasonCalendar, Match: func(in Input) bool {
			return contains(in.Article.Subjects, subjectCalendar)
		}},
		{Reason: domain.ReasonWireEligibility, Match: func(in Input) bool {
			for _, w := range in.Article.Wires {
				if _, ok := permitted[w]; ok {
					return false
				}
			}
			return true
		}},
	}
}

// Classify runs all rules and collects every triggered reason.
func (c *Classifier) Classify(a domain.ExtractedArticle, text domain.AssembledText, m domain.Metrics) domain.Verdict {
	in := Input{Article: a, Text: text, Metrics: m}

	var verdict domain.Verdict
	for _, rule := range c.rules {
		if rule.Match(in) {
			verdict.Reasons = append(verdict.Reasons, rule.Reason)
		}
	}
	return verdict
}

func titleContainsAny(title string, keywords ...string) bool {
	upper := strings.ToUpper(title)
	for _, k := range keywords {
		if strings.Contains(upper, k) {
			return true
		}
	}
	return false
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
