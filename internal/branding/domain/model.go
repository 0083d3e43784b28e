package domain

import "time"

// TranscriptEntry is a single speaker turn of a meeting transcript.
type TranscriptEntry struct {
	Text      string `json:"text"`
	Speaker   string `json:"speaker"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Transcript is the ordered, immutable input to brand analysis.
type Transcript []TranscriptEntry

// SuggestedDirection is the model's recommended logo family.
type SuggestedDirection struct {
	Type      LogoType `json:"type"`
	Reasoning string   `json:"reasoning"`
}

// BrandAnalysis is the structured result of the transcript-analysis step.
// It is produced once per project and never regenerated.
type BrandAnalysis struct {
	CompanyName        string             `json:"companyName"`
	Industry           string             `json:"industry"`
	BrandPersonality   []string           `json:"brandPersonality"`
	KeyDifferentiators []string           `json:"keyDifferentiators"`
	TargetAudience     string             `json:"targetAudience"`
	VisualPreferences  []string           `json:"visualPreferences"`
	AntiPreferences    []string           `json:"antiPreferences"`
	SuggestedDirection SuggestedDirection `json:"suggestedDirection"`
}

// GeneratedLogo is a validated logo returned by the model, before it is stored.
type GeneratedLogo struct {
	Name      string   `json:"name"`
	Type      LogoType `json:"type"`
	Rationale string   `json:"rationale"`
	SVG       string   `json:"svg"`
}

// Concept converts a generated logo into an unsaved concept.
func (g GeneratedLogo) Concept() LogoConcept {
	return LogoConcept{
		ConceptName: g.Name,
		LogoType:    g.Type,
		Rationale:   g.Rationale,
		SVGCode:     g.SVG,
	}
}

// LogoConcept is a stored logo owned by exactly one project.
type LogoConcept struct {
	ID          string    `json:"id,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	ConceptName string    `json:"conceptName"`
	LogoType    LogoType  `json:"logoType"`
	Rationale   string    `json:"rationale"`
	SVGCode     string    `json:"svgCode"`
	IsFavorite  bool      `json:"isFavorite"`
}

// Project is the aggregate root: one transcript, at most one analysis, many concepts.
type Project struct {
	ID            string         `json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Transcript    Transcript     `json:"transcript,omitempty"`
	BrandAnalysis *BrandAnalysis `json:"brandAnalysis"`
	Status        ProjectStatus  `json:"status"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
}

// ProjectWithLogos is a project together with its concepts, oldest first.
type ProjectWithLogos struct {
	Project
	LogoConcepts []LogoConcept `json:"logoConcepts"`
}

// CompanyName returns the analysed company name or a placeholder.
func (p *Project) CompanyName() string {
	if p.BrandAnalysis != nil && p.BrandAnalysis.CompanyName != "" {
		return p.BrandAnalysis.CompanyName
	}
	return "Untitled Project"
}

// Concept returns the stored concept of the given type, if any.
func (p *ProjectWithLogos) Concept(t LogoType) (LogoConcept, bool) {
	for _, c := range p.LogoConcepts {
		if c.LogoType == t {
			return c, true
		}
	}
	return LogoConcept{}, false
}

// ProjectSummary is the listing view of a project.
type ProjectSummary struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	Status      ProjectStatus `json:"status"`
	CompanyName string        `json:"companyName"`
	LogoCount   int           `json:"logoCount"`
	Thumbnails  []LogoConcept `json:"thumbnails"`
}
