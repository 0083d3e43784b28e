package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced object",
			in:   "```json\n{\"name\": \"Tide\"}\n```",
			want: `{"name": "Tide"}`,
		},
		{
			name: "prose with braces before payload",
			in:   "Here is the {draft} plan:\n{\"name\": \"Tide\"} hope that helps {ok}",
			want: `{"name": "Tide"}`,
		},
		{
			name: "braces inside string values",
			in:   `{"svg": "<style>.a{fill:#000}</style>", "n": {"x": 1}}`,
			want: `{"svg": "<style>.a{fill:#000}</style>", "n": {"x": 1}}`,
		},
		{
			name: "escaped quote inside string",
			in:   `noise {"q": "say \"}\" now"} tail`,
			want: `{"q": "say \"}\" now"}`,
		},
		{
			name: "apostrophes in prose",
			in:   `Here's the "final" answer: {"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "unmatched brace in prose before fenced payload",
			in:   "Sure { here is the result:\n```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "quoted brace in prose",
			in:   `He said "{" and then {"a":3}`,
			want: `{"a":3}`,
		},
		{
			name: "invalid object before valid one",
			in:   `{draft: true} {"a": 2}`,
			want: `{"a": 2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, in := range []string{"", "no braces here", "{ not json }", "[1, 2]"} {
		_, err := extractJSON(in)
		assert.ErrorIs(t, err, ErrNoJSONObject, in)
	}
}

func TestNormalizeSVG(t *testing.T) {
	in := "  <svg viewBox='0 0 200 200' xmlns='http://www.w3.org/2000/svg'><text font-family='Georgia, \"Times\"'>It's</text></svg>\n"
	got := normalizeSVG(in)
	assert.Equal(t, `<svg viewBox="0 0 200 200" xmlns="http://www.w3.org/2000/svg"><text font-family="Georgia, 'Times'">It's</text></svg>`, got)
}

func TestCheckSVG(t *testing.T) {
	assert.NoError(t, checkSVG(`<svg></svg>`))
	assert.ErrorIs(t, checkSVG(`<g></g></svg>`), errMissingSVGOpen)
	assert.ErrorIs(t, checkSVG(`<svg><g></g>`), errMissingSVGClose)
}
