package web

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// SVGSanitizer strips scripts, event handlers and external references from
// model-generated SVG before it is inlined into a page.
type SVGSanitizer struct {
	policy *bluemonday.Policy
}

func NewSVGSanitizer() *SVGSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"svg", "g", "defs", "title", "desc",
		"path", "rect", "circle", "ellipse", "line", "polyline", "polygon",
		"text", "tspan",
		"lineargradient", "radialgradient", "stop", "clippath", "mask",
	)
	p.AllowAttrs("xmlns", "viewbox", "width", "height", "preserveaspectratio", "role", "aria-label").OnElements("svg")
	p.AllowAttrs(
		"id", "class", "transform", "opacity",
		"fill", "fill-opacity", "fill-rule", "clip-rule", "clip-path", "mask",
		"stroke", "stroke-width", "stroke-linecap", "stroke-linejoin", "stroke-miterlimit",
		"stroke-dasharray", "stroke-dashoffset", "stroke-opacity",
	).Globally()
	p.AllowAttrs("d", "pathlength").OnElements("path")
	p.AllowAttrs("x", "y", "width", "height", "rx", "ry").OnElements("rect", "mask")
	p.AllowAttrs("cx", "cy", "r", "rx", "ry", "fx", "fy").OnElements("circle", "ellipse", "radialgradient")
	p.AllowAttrs("x1", "y1", "x2", "y2").OnElements("line", "lineargradient")
	p.AllowAttrs("points").OnElements("polyline", "polygon")
	p.AllowAttrs("gradientunits", "gradienttransform", "spreadmethod").OnElements("lineargradient", "radialgradient")
	p.AllowAttrs("offset", "stop-color", "stop-opacity").OnElements("stop")
	p.AllowAttrs("clippathunits").OnElements("clippath")
	p.AllowAttrs(
		"x", "y", "dx", "dy", "text-anchor", "dominant-baseline", "font-family", "font-size",
		"font-weight", "font-style", "letter-spacing", "word-spacing", "text-decoration",
		"textlength", "lengthadjust",
	).OnElements("text", "tspan")
	return &SVGSanitizer{policy: p}
}

var svgOpenTag = regexp.MustCompile(`(?i)<svg\b[^>]*>`)

// EnsureNamespace adds the SVG xmlns attribute to the root tag when missing.
func EnsureNamespace(svg string) string {
	loc := svgOpenTag.FindStringIndex(svg)
	if loc == nil {
		return svg
	}
	tag := svg[loc[0]:loc[1]]
	if strings.Contains(strings.ToLower(tag), "xmlns=") {
		return svg
	}
	return svg[:loc[0]+4] + ` xmlns="` + svgNamespace + `"` + svg[loc[0]+4:]
}

// Sanitize returns markup that is safe to inline.
func (s *SVGSanitizer) Sanitize(svg string) template.HTML {
	return template.HTML(s.policy.Sanitize(EnsureNamespace(svg)))
}
