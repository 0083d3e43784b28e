package http

import (
	"encoding/json"
	"time"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

type analyzeReq struct {
	Transcript json.RawMessage `json:"transcript"`
}

type analyzeResp struct {
	ProjectID     string               `json:"projectId"`
	BrandAnalysis domain.BrandAnalysis `json:"brandAnalysis"`
	Logos         []conceptDTO         `json:"logos"`
}

type generateReq struct {
	ProjectID string `json:"projectId"`
	LogoType  string `json:"logoType"`
	Variant   int    `json:"variant"`
}

type regenerateReq struct {
	ProjectID     string `json:"projectId"`
	LogoType      string `json:"logoType"`
	RegenerateAll bool   `json:"regenerateAll"`
	Variant       int    `json:"variant"`
}

type favoriteReq struct {
	IsFavorite *bool `json:"isFavorite"`
}

type conceptDTO struct {
	ID          string          `json:"id"`
	ConceptName string          `json:"conceptName"`
	LogoType    domain.LogoType `json:"logoType"`
	Rationale   string          `json:"rationale"`
	SVGCode     string          `json:"svgCode"`
	IsFavorite  bool            `json:"isFavorite"`
}

func toConceptDTO(c domain.LogoConcept) conceptDTO {
	return conceptDTO{
		ID:          c.ID,
		ConceptName: c.ConceptName,
		LogoType:    c.LogoType,
		Rationale:   c.Rationale,
		SVGCode:     c.SVGCode,
		IsFavorite:  c.IsFavorite,
	}
}

func toConceptDTOs(cs []domain.LogoConcept) []conceptDTO {
	out := make([]conceptDTO, len(cs))
	for i, c := range cs {
		out[i] = toConceptDTO(c)
	}
	return out
}

type projectDTO struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"createdAt"`
	Status        domain.ProjectStatus  `json:"status"`
	ErrorMessage  string                `json:"errorMessage,omitempty"`
	BrandAnalysis *domain.BrandAnalysis `json:"brandAnalysis"`
	LogoConcepts  []conceptDTO          `json:"logoConcepts"`
}

type thumbnailDTO struct {
	ID       string          `json:"id"`
	LogoType domain.LogoType `json:"logoType"`
	SVGCode  string          `json:"svgCode"`
}

type projectSummaryDTO struct {
	ID          string               `json:"id"`
	CreatedAt   time.Time            `json:"createdAt"`
	CompanyName string               `json:"companyName"`
	Status      domain.ProjectStatus `json:"status"`
	LogoCount   int                  `json:"logoCount"`
	Logos       []thumbnailDTO       `json:"logos"`
}

func toSummaryDTO(s domain.ProjectSummary) projectSummaryDTO {
	logos := make([]thumbnailDTO, len(s.Thumbnails))
	for i, t := range s.Thumbnails {
		logos[i] = thumbnailDTO{ID: t.ID, LogoType: t.LogoType, SVGCode: t.SVGCode}
	}
	return projectSummaryDTO{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		CompanyName: s.CompanyName,
		Status:      s.Status,
		LogoCount:   s.LogoCount,
		Logos:       logos,
	}
}
