package service

import (
	"context"
	"time"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

// Store is the persistence the service needs. *repository.Store implements it.
type Store interface {
	CreateProject(ctx context.Context, t domain.Transcript) (*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	SaveAnalysis(ctx context.Context, id string, a domain.BrandAnalysis) error
	Complete(ctx context.Context, id string) error
	MarkError(ctx context.Context, id string, message string) error
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetProjectWithLogos(ctx context.Context, id string) (*domain.ProjectWithLogos, error)
	ListRecent(ctx context.Context, limit, thumbs int) ([]domain.ProjectSummary, error)
	ListStale(ctx context.Context, before time.Time) ([]string, error)

	CreateConcept(ctx context.Context, projectID string, c domain.LogoConcept) (*domain.LogoConcept, error)
	ReplaceConcepts(ctx context.Context, projectID string, types []domain.LogoType, concepts []domain.LogoConcept) ([]domain.LogoConcept, error)
	GetConcept(ctx context.Context, id string) (*domain.LogoConcept, error)
	SetFavorite(ctx context.Context, id string, favorite bool) (*domain.LogoConcept, error)
	DeleteConcept(ctx context.Context, id string) (string, error)
}

// Generator produces analyses and logos. *generation.Orchestrator implements it.
type Generator interface {
	Analyze(ctx context.Context, t domain.Transcript) (domain.BrandAnalysis, error)
	GenerateAll(ctx context.Context, a domain.BrandAnalysis) ([]domain.GeneratedLogo, error)
	GenerateSingle(ctx context.Context, t domain.LogoType, a domain.BrandAnalysis, variant int) (domain.GeneratedLogo, error)
}

// Cache holds read views. *repository.ProjectCache implements it.
type Cache interface {
	GetProject(ctx context.Context, id string) (*domain.ProjectWithLogos, bool, error)
	SetProject(ctx context.Context, p *domain.ProjectWithLogos) error
	GetRecent(ctx context.Context, limit int) ([]domain.ProjectSummary, bool, error)
	SetRecent(ctx context.Context, limit int, projects []domain.ProjectSummary) error
	Invalidate(ctx context.Context, projectID string) error
}
