package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter_Sanitize(t *testing.T) {
	f := New(DefaultTerms)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Single banned token with surrounding text preserved",
			input:    "I sell heroin now",
			expected: "I sell ****** now",
		},
		{
			name:     "Case-insensitive match",
			input:    "HEROIN is bad",
			expected: "****** is bad",
		},
		{
			name:     "Word boundary prevents substring match",
			input:    "the heroine saved the day",
			expected: "the heroine saved the day",
		},
		{
			name:     "Multiple occurrences",
			input:    "drugs and weapons and drugs",
			expected: "***** and ******* and *****",
		},
		{
			name:     "Multi-word banned phrase",
			input:    "they will rob them tonight",
			expected: "they will ******** tonight",
		},
		{
			name:     "Adjacent punctuation keeps boundary",
			input:    "no more fraud!",
			expected: "no more *****!",
		},
		{
			name:     "Nothing to mask",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, f.Sanitize(tt.input))
		})
	}
}

func TestFilter_Sanitize_MaskPreservesLength(t *testing.T) {
	req := require.New(t)
	f := New(DefaultTerms)

	out := f.Sanitize("I sell heroin now")
	req.Len(out, len("I sell heroin now"))
	req.Equal(strings.Repeat(MaskChar, 6), out[7:13])
}

func TestFilter_Sanitize_LongestMatchFirst(t *testing.T) {
	req := require.New(t)

	// "kill" is a substring of "killing"; the longer term must win.
	f := New([]string{"kill", "killing"})

	req.Equal("******* spree", f.Sanitize("killing spree"))
	req.Equal("**** it", f.Sanitize("kill it"))
}

func TestFilter_Sanitize_EscapesRegexMetacharacters(t *testing.T) {
	req := require.New(t)

	// The dot must match literally, not as a wildcard.
	f := New([]string{"drug.dealer"})

	req.Equal("*********** here", f.Sanitize("drug.dealer here"))
	req.Equal("drugXdealer here", f.Sanitize("drugXdealer here"))
}

func TestFilter_Sanitize_EmptyTermList(t *testing.T) {
	req := require.New(t)

	f := New(nil)

	req.Equal("heroin untouched", f.Sanitize("heroin untouched"))
}
