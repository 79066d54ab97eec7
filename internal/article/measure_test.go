package article

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	err error
}

// CountTokens splits on whitespace; good enough to observe wiring.
func (f fakeTokens) CountTokens(text string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(strings.Fields(text)), nil
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\n ", 0},
		{"Hallo Welt", 2},
		{"Zürich (awp) - Die Börse", 4},
		{"snake_case 3.5% +12", 4},
		{"l'économie", 2},
		{"Titel\n\nText.", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountWords(tt.text), tt.text)
	}
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	m, err := NewMeasurer(fakeTokens{}).Measure("Titel\n\nEin kurzer Text.")
	require.NoError(t, err)
	assert.Equal(t, 4, m.WordCount)
	assert.Equal(t, 4, m.TokenCount)
}

func TestMeasureTokenError(t *testing.T) {
	t.Parallel()

	boom := errors.New("encoder down")
	_, err := NewMeasurer(fakeTokens{err: boom}).Measure("x")
	require.ErrorIs(t, err, boom)

	_, err = NewMeasurer(nil).Measure("x")
	require.Error(t, err)
}
