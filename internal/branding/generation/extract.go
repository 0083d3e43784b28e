package generation

import (
	"encoding/json"
	"errors"
	"regexp"
)

// ErrNoJSONObject is returned when model output holds no parseable JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in model response")

var fencePattern = regexp.MustCompile("```(?:json|JSON)?")

// stripFences removes markdown code fence markers, keeping their contents.
func stripFences(s string) string {
	return fencePattern.ReplaceAllString(s, "")
}

// objectEnd scans the object opening at s[start] and returns the index just
// past its closing brace. String literals are skipped so braces in values do
// not affect depth. ok is false when the input ends before the object closes.
func objectEnd(s string, start int) (end int, ok bool) {
	depth := 0
	inString := false
	escape := false

	for i := start; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// extractJSON returns the first balanced object in raw that is valid JSON.
// Every '{' is tried as a start, so stray braces or quotes in surrounding
// prose cannot hide a later payload.
func extractJSON(raw string) ([]byte, error) {
	s := stripFences(raw)
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end, ok := objectEnd(s, i)
		if !ok {
			continue
		}
		if c := []byte(s[i:end]); json.Valid(c) {
			return c, nil
		}
	}
	return nil, ErrNoJSONObject
}

// decodeJSON extracts the payload from raw and unmarshals it into v.
func decodeJSON(raw string, v any) error {
	payload, err := extractJSON(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}
