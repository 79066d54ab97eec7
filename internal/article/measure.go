package article

import (
	"fmt"
	"regexp"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// CountWords returns the number of maximal word-character runs.
func CountWords(text string) int {
	return len(wordRun.FindAllStringIndex(text, -1))
}

// Measurer computes size metrics over the complete text.
type Measurer struct {
	tokens ports.TokenCounter
}

// NewMeasurer wires the token encoder.
func NewMeasurer(tokens ports.TokenCounter) *Measurer {
	return &Measurer{tokens: tokens}
}

// Measure counts words and tokens of complete.
func (m *Measurer) Measure(complete string) (domain.Metrics, error) {
	if m.tokens == nil {
		return domain.Metrics{}, fmt.Errorf("token counter is not configured")
	}

	tokens, err := m.tokens.CountTokens(complete)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("count tokens: %w", err)
	}

	return domain.Metrics{
		WordCount:  CountWords(complete),
		TokenCount: tokens,
	}, nil
}
