package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

// DefaultEncoding is the BPE scheme used for language-model cost estimates.
const DefaultEncoding = "cl100k_base"

var loaderOnce sync.Once

// Encoder counts tokens with an embedded, offline BPE vocabulary.
type Encoder struct {
	name string
	enc  *tiktoken.Tiktoken
}

var _ ports.TokenCounter = (*Encoder)(nil)

// NewEncoder loads the named encoding; empty selects DefaultEncoding.
func NewEncoder(name string) (*Encoder, error) {
	if name == "" {
		name = DefaultEncoding
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", name, err)
	}

	return &Encoder{name: name, enc: enc}, nil
}

// Name reports the encoding in use.
func (e *Encoder) Name() string {
	return e.name
}

// CountTokens encodes text without special-token handling.
func (e *Encoder) CountTokens(text string) (int, error) {
	if e == nil || e.enc == nil {
		return 0, fmt.Errorf("encoder is not initialised")
	}
	return len(e.enc.Encode(text, nil, nil)), nil
}
