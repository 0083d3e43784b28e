package generation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errMissingSVGOpen  = errors.New("svg markup is missing an opening <svg tag")
	errMissingSVGClose = errors.New("svg markup is missing a closing </svg> tag")
)

var (
	tagPattern       = regexp.MustCompile(`<[^<>]+>`)
	singleQuotedAttr = regexp.MustCompile(`(\s[\w:.-]+)\s*=\s*'([^']*)'`)
)

// checkSVG requires both an opening and a closing svg tag.
func checkSVG(svg string) error {
	lower := strings.ToLower(svg)
	if !strings.Contains(lower, "<svg") {
		return errMissingSVGOpen
	}
	if !strings.Contains(lower, "</svg>") {
		return errMissingSVGClose
	}
	return nil
}

// normalizeSVG trims surrounding whitespace and rewrites single-quoted
// attribute values inside tags to double quotes.
func normalizeSVG(svg string) string {
	svg = strings.TrimSpace(svg)
	return tagPattern.ReplaceAllStringFunc(svg, func(tag string) string {
		return singleQuotedAttr.ReplaceAllStringFunc(tag, func(attr string) string {
			m := singleQuotedAttr.FindStringSubmatch(attr)
			value := strings.ReplaceAll(m[2], `"`, "'")
			return m[1] + `="` + value + `"`
		})
	})
}
