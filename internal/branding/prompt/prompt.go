// Package prompt builds the model prompts for transcript analysis and logo generation.
//
// Templates are plain text; brand data is substituted verbatim without escaping.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed templates/system.tmpl
var logoSystemPrompt string

var templates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": func(items []string) string { return strings.Join(items, ", ") }}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

var logoTemplates = map[domain.LogoType]string{
	domain.LogoTypeWordmark:  "wordmark.tmpl",
	domain.LogoTypePictorial: "pictorial.tmpl",
	domain.LogoTypeAbstract:  "abstract.tmpl",
}

type logoData struct {
	domain.BrandAnalysis
	Variant int
}

// LogoSystemPrompt is the fixed system instruction sent with every logo request.
func LogoSystemPrompt() string {
	return strings.TrimSpace(logoSystemPrompt)
}

// AnalysisPrompt returns the analysis instructions followed by the formatted transcript.
func AnalysisPrompt(formattedTranscript string) string {
	var sb strings.Builder
	// The data is a plain string; execution cannot fail.
	_ = templates.ExecuteTemplate(&sb, "analysis.tmpl", struct{ Transcript string }{formattedTranscript})
	return strings.TrimRight(sb.String(), "\n")
}

// LogoPrompt returns the user prompt for one logo type. The variant only affects
// pictorial marks, where 2 asks for a deliberately different second take.
func LogoPrompt(t domain.LogoType, analysis domain.BrandAnalysis, variant int) (string, error) {
	name, ok := logoTemplates[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLogoType, t)
	}
	if variant < 1 {
		variant = 1
	}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, logoData{BrandAnalysis: analysis, Variant: variant}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t, err)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
