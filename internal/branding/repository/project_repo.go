package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

// ProjectRepository persists projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateProject inserts a pending project holding the transcript.
func (r *ProjectRepository) CreateProject(ctx context.Context, t domain.Transcript) (*domain.Project, error) {
	if t == nil {
		t = domain.Transcript{}
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}

	p := &domain.Project{
		ID:         uuid.NewString(),
		Transcript: t,
		Status:     domain.StatusPending,
	}
	err = r.db.QueryRowContext(ctx, `
insert into projects (id, transcript, status)
values ($1, $2::jsonb, $3)
returning created_at, updated_at
`, p.ID, string(raw), string(p.Status)).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// UpdateStatus moves the project to status when its current status allows it.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	res, err := r.db.ExecContext(ctx, `
update projects
set status = $1,
    updated_at = now()
where id = $2
  and status = any($3)
`, string(status), id, predecessors(status))
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	return r.checkTransition(ctx, res, id, status)
}

// SaveAnalysis stores the analysis and moves the project to generating.
func (r *ProjectRepository) SaveAnalysis(ctx context.Context, id string, a domain.BrandAnalysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal brand analysis: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
update projects
set brand_analysis = $1::jsonb,
    status = $2,
    updated_at = now()
where id = $3
  and status = any($4)
`, string(raw), string(domain.StatusGenerating), id, predecessors(domain.StatusGenerating))
	if err != nil {
		return fmt.Errorf("save brand analysis: %w", err)
	}
	return r.checkTransition(ctx, res, id, domain.StatusGenerating)
}

// Complete marks a generating project complete.
func (r *ProjectRepository) Complete(ctx context.Context, id string) error {
	return r.UpdateStatus(ctx, id, domain.StatusComplete)
}

// MarkError records a pipeline failure on a project that has not finished.
func (r *ProjectRepository) MarkError(ctx context.Context, id string, message string) error {
	res, err := r.db.ExecContext(ctx, `
update projects
set status = $1,
    error_message = $2,
    updated_at = now()
where id = $3
  and status = any($4)
`, string(domain.StatusError), message, id, predecessors(domain.StatusError))
	if err != nil {
		return fmt.Errorf("mark project error: %w", err)
	}
	return r.checkTransition(ctx, res, id, domain.StatusError)
}

// ListStale returns the ids of unfinished projects last updated before the
// cutoff, oldest first.
func (r *ProjectRepository) ListStale(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
select id
from projects
where status = any($1)
  and updated_at < $2
order by updated_at asc
`, predecessors(domain.StatusError), before)
	if err != nil {
		return nil, fmt.Errorf("list stale projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list stale projects: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stale projects: %w", err)
	}
	return ids, nil
}

func (r *ProjectRepository) checkTransition(ctx context.Context, res sql.Result, id string, next domain.ProjectStatus) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRowContext(ctx, `select status from projects where id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, next)
}

const projectColumns = `id, created_at, updated_at, transcript, brand_analysis, status, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p          domain.Project
		transcript []byte
		analysis   []byte
		status     string
		errMsg     sql.NullString
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &transcript, &analysis, &status, &errMsg); err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	p.ErrorMessage = errMsg.String

	if len(transcript) > 0 {
		if err := json.Unmarshal(transcript, &p.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	}
	if len(analysis) > 0 && string(analysis) != "null" {
		var a domain.BrandAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return nil, fmt.Errorf("decode brand analysis: %w", err)
		}
		p.BrandAnalysis = &a
	}
	return &p, nil
}

// GetProject returns the project or domain.ErrProjectNotFound.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProjectNotFound
	}

	row := r.db.QueryRowContext(ctx, `select `+projectColumns+` from projects where id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetProjectWithLogos returns the project and its concepts, oldest first.
func (r *ProjectRepository) GetProjectWithLogos(ctx context.Context, id string) (*domain.ProjectWithLogos, error) {
	p, err := r.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	byProject, err := r.conceptsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	logos := byProject[id]
	if logos == nil {
		logos = []domain.LogoConcept{}
	}
	return &domain.ProjectWithLogos{Project: *p, LogoConcepts: logos}, nil
}

// ListRecent returns the most recent projects with up to thumbs concepts each.
// Concepts for the whole page are fetched in one query.
func (r *ProjectRepository) ListRecent(ctx context.Context, limit, thumbs int) ([]domain.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
select `+projectColumns+`
from projects
order by created_at desc
limit $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	var ids []string
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		projects = append(projects, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]domain.ProjectSummary, 0, len(projects))
	if len(projects) == 0 {
		return out, nil
	}

	byProject, err := r.conceptsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		logos := byProject[p.ID]
		thumbnails := logos
		if len(thumbnails) > thumbs {
			thumbnails = thumbnails[:thumbs]
		}
		if thumbnails == nil {
			thumbnails = []domain.LogoConcept{}
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

func (r *ProjectRepository) conceptsFor(ctx context.Context, projectIDs []string) (map[string][]domain.LogoConcept, error) {
	rows, err := r.db.QueryContext(ctx, `
select `+conceptColumns+`
from logo_concepts
where project_id = any($1)
order by project_id, created_at asc
`, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("list logo concepts: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.LogoConcept, len(projectIDs))
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("list logo concepts: %w", err)
		}
		out[c.ProjectID] = append(out[c.ProjectID], *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list logo concepts: %w", err)
	}
	return out, nil
}

func predecessors(next domain.ProjectStatus) any {
	prev := domain.AllowedPredecessors(next)
	out := make([]string, len(prev))
	for i, s := range prev {
		out[i] = string(s)
	}
	return pq.Array(out)
}
