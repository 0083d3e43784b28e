package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/transcript"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

const (
	DefaultListLimit = 20
	ThumbnailCount   = 3
)

// AnalyzeResult is the outcome of a successful analyze pipeline.
type AnalyzeResult struct {
	ProjectID     string
	BrandAnalysis domain.BrandAnalysis
	Logos         []domain.LogoConcept
}

// Service runs the project lifecycle over a store and a generator.
type Service struct {
	store Store
	gen   Generator
	cache Cache
	log   logrus.FieldLogger
}

// New creates a Service. cache may be nil.
func New(store Store, gen Generator, cache Cache, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{store: store, gen: gen, cache: cache, log: log}
}

func (s *Service) logger(ctx context.Context) logrus.FieldLogger {
	return logging.FromContext(ctx, s.log)
}

// Analyze validates the transcript, creates a project and runs analysis and
// generation. Failures after creation leave the project in status error.
func (s *Service) Analyze(ctx context.Context, t domain.Transcript) (*AnalyzeResult, error) {
	if err := transcript.Validate(t); err != nil {
		return nil, err
	}

	project, err := s.store.CreateProject(ctx, t)
	if err != nil {
		return nil, &PipelineError{Stage: StageCreate, Err: err}
	}
	id := project.ID
	log := s.logger(ctx).WithField("project_id", id)
	defer s.invalidate(ctx, id)

	if err := s.store.UpdateStatus(ctx, id, domain.StatusAnalyzing); err != nil {
		return nil, s.fail(ctx, id, StageAnalyze, err)
	}

	analysis, err := s.gen.Analyze(ctx, t)
	if err != nil {
		return nil, s.fail(ctx, id, StageAnalyze, err)
	}
	if err := s.store.SaveAnalysis(ctx, id, analysis); err != nil {
		return nil, s.fail(ctx, id, StagePersist, err)
	}
	log.WithField("company", analysis.CompanyName).Info("brand analysis saved")

	logos, err := s.gen.GenerateAll(ctx, analysis)
	if err != nil {
		return nil, s.fail(ctx, id, StageGenerate, err)
	}

	saved, err := s.store.ReplaceConcepts(ctx, id, domain.AllLogoTypes, concepts(logos))
	if err != nil {
		return nil, s.fail(ctx, id, StagePersist, err)
	}
	if err := s.store.Complete(ctx, id); err != nil {
		return nil, s.fail(ctx, id, StagePersist, err)
	}
	log.WithField("logos", len(saved)).Info("project complete")

	return &AnalyzeResult{ProjectID: id, BrandAnalysis: analysis, Logos: saved}, nil
}

// fail records the failure on the project and returns it as a PipelineError.
func (s *Service) fail(ctx context.Context, projectID, stage string, cause error) error {
	log := s.logger(ctx).WithFields(logrus.Fields{"project_id": projectID, "stage": stage})
	log.WithError(cause).Error("analyze pipeline failed")

	// Record even when the caller has gone away.
	if err := s.store.MarkError(context.WithoutCancel(ctx), projectID, cause.Error()); err != nil {
		log.WithError(err).Error("failed to record project error")
	}
	return &PipelineError{ProjectID: projectID, Stage: stage, Err: cause}
}

// Generate creates or replaces the concept of one type.
func (s *Service) Generate(ctx context.Context, projectID string, t domain.LogoType, variant int) (*domain.LogoConcept, error) {
	analysis, err := s.analysisFor(ctx, projectID, t)
	if err != nil {
		return nil, err
	}

	logo, err := s.gen.GenerateSingle(ctx, t, *analysis, variant)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{"project_id": projectID, "logo_type": t}).
			WithError(err).Error("logo generation failed")
		return nil, err
	}

	c, err := s.store.CreateConcept(ctx, projectID, logo.Concept())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, projectID)
	return c, nil
}

// Regenerate replaces the concept of one type. The old concept is kept when
// generation fails.
func (s *Service) Regenerate(ctx context.Context, projectID string, t domain.LogoType, variant int) (*domain.LogoConcept, error) {
	analysis, err := s.analysisFor(ctx, projectID, t)
	if err != nil {
		return nil, err
	}

	logo, err := s.gen.GenerateSingle(ctx, t, *analysis, variant)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{"project_id": projectID, "logo_type": t}).
			WithError(err).Error("logo regeneration failed")
		return nil, err
	}

	saved, err := s.store.ReplaceConcepts(ctx, projectID, []domain.LogoType{t}, []domain.LogoConcept{logo.Concept()})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, projectID)
	return &saved[0], nil
}

// RegenerateAll regenerates every type. Only the types that were generated
// are replaced; the rest keep their previous concept.
func (s *Service) RegenerateAll(ctx context.Context, projectID string) ([]domain.LogoConcept, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.BrandAnalysis == nil {
		return nil, domain.ErrNoBrandAnalysis
	}

	logos, err := s.gen.GenerateAll(ctx, *project.BrandAnalysis)
	if err != nil {
		s.logger(ctx).WithField("project_id", projectID).WithError(err).Error("logo regeneration failed")
		return nil, err
	}

	types := make([]domain.LogoType, 0, len(logos))
	for _, l := range logos {
		types = append(types, l.Type)
	}
	saved, err := s.store.ReplaceConcepts(ctx, projectID, types, concepts(logos))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, projectID)
	return saved, nil
}

func (s *Service) analysisFor(ctx context.Context, projectID string, t domain.LogoType) (*domain.BrandAnalysis, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLogoType, t)
	}
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.BrandAnalysis == nil {
		return nil, domain.ErrNoBrandAnalysis
	}
	return project.BrandAnalysis, nil
}

// GetProject returns the project with its concepts, served from cache when possible.
func (s *Service) GetProject(ctx context.Context, id string) (*domain.ProjectWithLogos, error) {
	if s.cache != nil {
		p, ok, err := s.cache.GetProject(ctx, id)
		if err != nil {
			s.logger(ctx).WithError(err).Warn("project cache read failed")
		}
		if ok {
			return p, nil
		}
	}

	p, err := s.store.GetProjectWithLogos(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProject(ctx, p); err != nil {
			s.logger(ctx).WithError(err).Warn("project cache write failed")
		}
	}
	return p, nil
}

// ListProjects returns the most recent projects with thumbnails.
func (s *Service) ListProjects(ctx context.Context, limit int) ([]domain.ProjectSummary, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	if s.cache != nil {
		list, ok, err := s.cache.GetRecent(ctx, limit)
		if err != nil {
			s.logger(ctx).WithError(err).Warn("listing cache read failed")
		}
		if ok {
			return list, nil
		}
	}

	list, err := s.store.ListRecent(ctx, limit, ThumbnailCount)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRecent(ctx, limit, list); err != nil {
			s.logger(ctx).WithError(err).Warn("listing cache write failed")
		}
	}
	return list, nil
}

func (s *Service) GetConcept(ctx context.Context, id string) (*domain.LogoConcept, error) {
	return s.store.GetConcept(ctx, id)
}

// SetFavorite persists the favorite flag of a concept.
func (s *Service) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.LogoConcept, error) {
	c, err := s.store.SetFavorite(ctx, id, favorite)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, c.ProjectID)
	return c, nil
}

func (s *Service) DeleteConcept(ctx context.Context, id string) error {
	projectID, err := s.store.DeleteConcept(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, projectID)
	return nil
}

// SweepStale marks unfinished projects with no progress since before as
// error. Projects that finish while the sweep runs are skipped.
func (s *Service) SweepStale(ctx context.Context, before time.Time) (int, error) {
	ids, err := s.store.ListStale(ctx, before)
	if err != nil {
		return 0, err
	}

	message := fmt.Sprintf("abandoned: no progress since %s", before.UTC().Format(time.RFC3339))
	marked := 0
	for _, id := range ids {
		err := s.store.MarkError(ctx, id, message)
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrProjectNotFound) {
			continue
		}
		if err != nil {
			return marked, fmt.Errorf("mark stale project %s: %w", id, err)
		}
		marked++
		s.invalidate(ctx, id)
		s.logger(ctx).WithField("project_id", id).Warn("stale project marked as error")
	}
	return marked, nil
}

func (s *Service) invalidate(ctx context.Context, projectID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), projectID); err != nil {
		s.logger(ctx).WithField("project_id", projectID).WithError(err).Warn("cache invalidation failed")
	}
}

func concepts(logos []domain.GeneratedLogo) []domain.LogoConcept {
	out := make([]domain.LogoConcept, len(logos))
	for i, l := range logos {
		out[i] = l.Concept()
	}
	return out
}
