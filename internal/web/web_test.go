package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

type fakePages struct {
	project *domain.ProjectWithLogos
	list    []domain.ProjectSummary
	err     error
}

func (f *fakePages) GetProject(_ context.Context, id string) (*domain.ProjectWithLogos, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.project == nil || f.project.ID != id {
		return nil, domain.ErrProjectNotFound
	}
	return f.project, nil
}

func (f *fakePages) ListProjects(context.Context, int) ([]domain.ProjectSummary, error) {
	return f.list, f.err
}

func serve(t *testing.T, pages Pages, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h, err := New(pages, nil)
	require.NoError(t, err)

	router := gin.New()
	h.Register(router)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestIndex(t *testing.T) {
	pages := &fakePages{list: []domain.ProjectSummary{{
		ID:          "p1",
		CompanyName: "Tidewell",
		Status:      domain.StatusComplete,
		LogoCount:   3,
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Thumbnails:  []domain.LogoConcept{{LogoType: domain.LogoTypeAbstract, SVGCode: `<svg><script>x()</script><rect width="4" height="4"/></svg>`}},
	}}}

	rr := serve(t, pages, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `id="analyze-form"`)
	assert.Contains(t, body, `id="format-btn"`)
	assert.Contains(t, body, `href="/project/p1"`)
	assert.Contains(t, body, "Tidewell")
	assert.Contains(t, body, "3 logos")
	assert.Contains(t, body, "<rect")
	assert.NotContains(t, body, "<script>x()")
}

func TestIndex_ListFailureShowsBanner(t *testing.T) {
	rr := serve(t, &fakePages{err: errors.New("db down")}, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load recent projects: db down")
	assert.Contains(t, rr.Body.String(), "No projects yet.")
}

func TestProjectPage(t *testing.T) {
	p := &domain.ProjectWithLogos{
		Project: domain.Project{
			ID:     "p1",
			Status: domain.StatusComplete,
			BrandAnalysis: &domain.BrandAnalysis{
				CompanyName:      "Tidewell",
				Industry:         "marine sensing",
				BrandPersonality: []string{"calm", "precise"},
			},
		},
		LogoConcepts: []domain.LogoConcept{
			{ID: "c1", ConceptName: "Still Water", LogoType: domain.LogoTypeWordmark, Rationale: "steady", SVGCode: `<svg viewBox="0 0 10 10" onclick="x()"><text x="1" y="5">T</text></svg>`, IsFavorite: true},
		},
	}

	rr := serve(t, &fakePages{project: p}, "/project/p1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<h1>Tidewell</h1>")
	assert.Contains(t, body, "calm, precise")
	assert.Contains(t, body, `data-concept-id="c1"`)
	assert.Contains(t, body, `href="/api/logo/c1/svg"`)
	assert.Contains(t, body, `class="favorite on"`)
	assert.Contains(t, body, `xmlns="http://www.w3.org/2000/svg"`)
	assert.NotContains(t, body, "onclick")
	assert.Contains(t, body, `data-logo-type="pictorial"`)
	assert.Contains(t, body, "No concept for this type.")
}

func TestProjectPage_NotFound(t *testing.T) {
	rr := serve(t, &fakePages{}, "/project/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "This project does not exist.")
}

func TestStaticAssets(t *testing.T) {
	rr := serve(t, &fakePages{}, "/static/app.js")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/regenerate")
}
