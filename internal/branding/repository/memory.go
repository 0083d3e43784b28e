package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

// MemoryStore is an in-process Store used by the CLI when no database is
// configured. It applies the same status and uniqueness rules as Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
	concepts map[string]*domain.LogoConcept
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*domain.Project),
		concepts: make(map[string]*domain.LogoConcept),
		now:      time.Now,
	}
}

func (m *MemoryStore) CreateProject(_ context.Context, t domain.Transcript) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p := &domain.Project{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
		Transcript: append(domain.Transcript(nil), t...),
		Status:     domain.StatusPending,
	}
	m.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) transition(id string, next domain.ProjectStatus, apply func(*domain.Project)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if !domain.CanTransition(p.Status, next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, p.Status, next)
	}
	p.Status = next
	p.UpdatedAt = m.now()
	if apply != nil {
		apply(p)
	}
	return nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.ProjectStatus) error {
	return m.transition(id, status, nil)
}

func (m *MemoryStore) SaveAnalysis(_ context.Context, id string, a domain.BrandAnalysis) error {
	return m.transition(id, domain.StatusGenerating, func(p *domain.Project) {
		p.BrandAnalysis = &a
	})
}

func (m *MemoryStore) Complete(ctx context.Context, id string) error {
	return m.UpdateStatus(ctx, id, domain.StatusComplete)
}

func (m *MemoryStore) MarkError(_ context.Context, id string, message string) error {
	return m.transition(id, domain.StatusError, func(p *domain.Project) {
		p.ErrorMessage = message
	})
}

func (m *MemoryStore) ListStale(_ context.Context, before time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []*domain.Project
	for _, p := range m.projects {
		if !p.Status.Terminal() && p.UpdatedAt.Before(before) {
			stale = append(stale, p)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].UpdatedAt.Before(stale[j].UpdatedAt) })

	ids := make([]string, len(stale))
	for i, p := range stale {
		ids[i] = p.ID
	}
	return ids, nil
}

func (m *MemoryStore) GetProject(_ context.Context, id string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) conceptsOf(projectID string) []domain.LogoConcept {
	out := []domain.LogoConcept{}
	for _, c := range m.concepts {
		if c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemoryStore) GetProjectWithLogos(ctx context.Context, id string) (*domain.ProjectWithLogos, error) {
	p, err := m.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.ProjectWithLogos{Project: *p, LogoConcepts: m.conceptsOf(id)}, nil
}

func (m *MemoryStore) ListRecent(_ context.Context, limit, thumbs int) ([]domain.ProjectSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]*domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	if len(projects) > limit {
		projects = projects[:limit]
	}

	out := make([]domain.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		logos := m.conceptsOf(p.ID)
		thumbnails := logos
		if len(thumbnails) > thumbs {
			thumbnails = thumbnails[:thumbs]
		}
		out = append(out, domain.ProjectSummary{
			ID:          p.ID,
			CreatedAt:   p.CreatedAt,
			Status:      p.Status,
			CompanyName: p.CompanyName(),
			LogoCount:   len(logos),
			Thumbnails:  thumbnails,
		})
	}
	return out, nil
}

// putConcept stores c, dropping any concept of the same type. Callers hold mu.
func (m *MemoryStore) putConcept(projectID string, c domain.LogoConcept) (*domain.LogoConcept, error) {
	if !c.LogoType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLogoType, c.LogoType)
	}
	if _, ok := m.projects[projectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	m.deleteTypes(projectID, []domain.LogoType{c.LogoType})

	c.ID = uuid.NewString()
	c.ProjectID = projectID
	c.CreatedAt = m.now()
	m.concepts[c.ID] = &c
	cp := c
	return &cp, nil
}

func (m *MemoryStore) deleteTypes(projectID string, types []domain.LogoType) {
	for id, c := range m.concepts {
		if c.ProjectID != projectID {
			continue
		}
		for _, t := range types {
			if c.LogoType == t {
				delete(m.concepts, id)
				break
			}
		}
	}
}

func (m *MemoryStore) CreateConcept(_ context.Context, projectID string, c domain.LogoConcept) (*domain.LogoConcept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putConcept(projectID, c)
}

func (m *MemoryStore) ReplaceConcepts(_ context.Context, projectID string, types []domain.LogoType, concepts []domain.LogoConcept) ([]domain.LogoConcept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	for _, c := range concepts {
		if !c.LogoType.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLogoType, c.LogoType)
		}
	}

	m.deleteTypes(projectID, types)
	out := make([]domain.LogoConcept, 0, len(concepts))
	for _, c := range concepts {
		saved, err := m.putConcept(projectID, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *saved)
	}
	return out, nil
}

func (m *MemoryStore) GetConcept(_ context.Context, id string) (*domain.LogoConcept, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.concepts[id]
	if !ok {
		return nil, domain.ErrConceptNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) SetFavorite(_ context.Context, id string, favorite bool) (*domain.LogoConcept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.concepts[id]
	if !ok {
		return nil, domain.ErrConceptNotFound
	}
	c.IsFavorite = favorite
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) DeleteConcept(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.concepts[id]
	if !ok {
		return "", domain.ErrConceptNotFound
	}
	delete(m.concepts, id)
	return c.ProjectID, nil
}
