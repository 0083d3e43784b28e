// Package transcript validates, parses and formats meeting transcripts.
package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

// ValidationError reports the first entry that is missing a required field.
type ValidationError struct {
	Index int
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %d is missing required field %q", e.Index+1, e.Field)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidTranscript }

// Validate checks that every entry carries non-empty text and speaker.
func Validate(t domain.Transcript) error {
	for i, entry := range t {
		if entry.Text == "" {
			return &ValidationError{Index: i, Field: "text"}
		}
		if entry.Speaker == "" {
			return &ValidationError{Index: i, Field: "speaker"}
		}
	}
	return nil
}

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// Clean repairs the usual damage in hand-edited transcript files:
// smart quotes, trailing commas and CR line endings.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
		"\r\n", "\n", "\r", "\n",
	).Replace(s)
	return trailingComma.ReplaceAllString(s, "$1")
}

// Parse leniently decodes a transcript document and validates it.
func Parse(raw []byte) (domain.Transcript, error) {
	cleaned := Clean(string(raw))

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrInvalidTranscript, err)
	}
	if _, ok := probe.([]any); !ok {
		return nil, fmt.Errorf("%w: expected an array of transcript entries", domain.ErrInvalidTranscript)
	}

	var t domain.Transcript
	if err := json.Unmarshal([]byte(cleaned), &t); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTranscript, err)
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Format renders the transcript as one speaker-prefixed line per entry,
// with a bracketed timestamp in front when present.
func Format(t domain.Transcript) string {
	var sb strings.Builder
	for i, entry := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if entry.Timestamp != "" {
			fmt.Fprintf(&sb, "[%s] ", entry.Timestamp)
		}
		fmt.Fprintf(&sb, "%s: %s", entry.Speaker, entry.Text)
	}
	return sb.String()
}
