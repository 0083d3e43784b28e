package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

const conceptColumns = `id, project_id, created_at, concept_name, logo_type, rationale, svg_code, is_favorite`

// ConceptRepository persists logo concepts. At most one concept exists per
// project and logo type.
type ConceptRepository struct {
	db *sql.DB
}

func NewConceptRepository(db *sql.DB) *ConceptRepository {
	return &ConceptRepository{db: db}
}

func scanConcept(row rowScanner) (*domain.LogoConcept, error) {
	var c domain.LogoConcept
	var logoType string
	if err := row.Scan(&c.ID, &c.ProjectID, &c.CreatedAt, &c.ConceptName, &logoType, &c.Rationale, &c.SVGCode, &c.IsFavorite); err != nil {
		return nil, err
	}
	c.LogoType = domain.LogoType(logoType)
	return &c, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// upsertConcept writes c, replacing any concept of the same type for the project.
func upsertConcept(ctx context.Context, q rowQuerier, projectID string, c domain.LogoConcept) (*domain.LogoConcept, error) {
	if !c.LogoType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLogoType, c.LogoType)
	}

	c.ID = uuid.NewString()
	c.ProjectID = projectID
	err := q.QueryRowContext(ctx, `
insert into logo_concepts (id, project_id, concept_name, logo_type, rationale, svg_code, is_favorite)
values ($1, $2, $3, $4, $5, $6, $7)
on conflict (project_id, logo_type) do update
set id = excluded.id,
    created_at = now(),
    concept_name = excluded.concept_name,
    rationale = excluded.rationale,
    svg_code = excluded.svg_code,
    is_favorite = excluded.is_favorite
returning created_at
`, c.ID, projectID, c.ConceptName, string(c.LogoType), c.Rationale, c.SVGCode, c.IsFavorite).Scan(&c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("save logo concept: %w", err)
	}
	return &c, nil
}

// CreateConcept stores c for the project.
func (r *ConceptRepository) CreateConcept(ctx context.Context, projectID string, c domain.LogoConcept) (*domain.LogoConcept, error) {
	return upsertConcept(ctx, r.db, projectID, c)
}

// ReplaceConcepts deletes the project's concepts of the given types and
// inserts concepts in one transaction.
func (r *ConceptRepository) ReplaceConcepts(ctx context.Context, projectID string, types []domain.LogoType, concepts []domain.LogoConcept) ([]domain.LogoConcept, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	if _, err := tx.ExecContext(ctx, `
delete from logo_concepts
where project_id = $1
  and logo_type = any($2)
`, projectID, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("delete logo concepts: %w", err)
	}

	out := make([]domain.LogoConcept, 0, len(concepts))
	for _, c := range concepts {
		saved, err := upsertConcept(ctx, tx, projectID, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetConcept returns the concept or domain.ErrConceptNotFound.
func (r *ConceptRepository) GetConcept(ctx context.Context, id string) (*domain.LogoConcept, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrConceptNotFound
	}

	c, err := scanConcept(r.db.QueryRowContext(ctx, `select `+conceptColumns+` from logo_concepts where id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConceptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get logo concept: %w", err)
	}
	return c, nil
}

// SetFavorite updates the favorite flag and returns the updated concept.
func (r *ConceptRepository) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.LogoConcept, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrConceptNotFound
	}

	c, err := scanConcept(r.db.QueryRowContext(ctx, `
update logo_concepts
set is_favorite = $1
where id = $2
returning `+conceptColumns, favorite, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConceptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set favorite: %w", err)
	}
	return c, nil
}

// DeleteConcept removes the concept and returns the owning project id.
func (r *ConceptRepository) DeleteConcept(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrConceptNotFound
	}

	var projectID string
	err := r.db.QueryRowContext(ctx, `delete from logo_concepts where id = $1 returning project_id`, id).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrConceptNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete logo concept: %w", err)
	}
	return projectID, nil
}
