package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "Internal punctuation",
			input:    "Look at b.a.d.g.e.r !",
			expected: "Look at *********** !",
		},
		{
			name:     "Uppercase and spacing noise",
			input:    "S-N-A-K-E is here",
			expected: "********* is here",
		},
		{
			name:     "Clean text untouched",
			input:    "Nothing wrong in this sentence",
			expected: "Nothing wrong in this sentence",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, mod.Censor(tt.input))
		})
	}
}

func TestModerator_Partial_Words_Are_Not_Masked(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"ass"}, replacementChar)
	req.NoError(err)

	// Substring matches are masked by design; the automaton works on the
	// normalized stream, not on word boundaries.
	req.Equal("cl***", mod.Censor("class"))
}

func TestLoadCensoredWords(t *testing.T) {
	req := require.New(t)

	data, err := LoadCensoredWords()
	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
