// Package web serves the HTML pages of the logo generator.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Pages is the read side the pages need. *service.Service implements it.
type Pages interface {
	GetProject(ctx context.Context, id string) (*domain.ProjectWithLogos, error)
	ListProjects(ctx context.Context, limit int) ([]domain.ProjectSummary, error)
}

type Handler struct {
	pages     Pages
	sanitizer *SVGSanitizer
	templates map[string]*template.Template
	log       logrus.FieldLogger
}

var funcs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
}

func New(pages Pages, log logrus.FieldLogger) (*Handler, error) {
	if log == nil {
		log = logging.Discard()
	}
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range []string{"index", "project", "not_found"} {
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", page, err)
		}
		templates[page] = t
	}

	return &Handler{
		pages:     pages,
		sanitizer: NewSVGSanitizer(),
		templates: templates,
		log:       log,
	}, nil
}

// Register mounts the pages and static assets.
func (h *Handler) Register(r gin.IRouter) {
	static, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(static))
	r.GET("/", h.index)
	r.GET("/project/:id", h.project)
}

type thumbView struct {
	LogoType domain.LogoType
	SVG      template.HTML
}

type projectCardView struct {
	ID          string
	CompanyName string
	Status      domain.ProjectStatus
	LogoCount   int
	CreatedAt   time.Time
	Thumbnails  []thumbView
}

type indexView struct {
	Title    string
	Error    string
	Projects []projectCardView
}

type conceptView struct {
	ID          string
	ConceptName string
	Rationale   string
	IsFavorite  bool
	SVG         template.HTML
}

type slotView struct {
	Type    domain.LogoType
	Concept *conceptView
}

type projectView struct {
	Title   string
	Error   string
	Project *domain.ProjectWithLogos
	Slots   []slotView
}

type notFoundView struct {
	Title   string
	Error   string
	Message string
}

func (h *Handler) index(c *gin.Context) {
	view := indexView{Title: "Projects"}

	list, err := h.pages.ListProjects(c.Request.Context(), 0)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.log).WithError(err).Error("failed to list projects")
		view.Error = "Failed to load recent projects: " + err.Error()
	}
	for _, p := range list {
		card := projectCardView{
			ID:          p.ID,
			CompanyName: p.CompanyName,
			Status:      p.Status,
			LogoCount:   p.LogoCount,
			CreatedAt:   p.CreatedAt,
		}
		for _, t := range p.Thumbnails {
			card.Thumbnails = append(card.Thumbnails, thumbView{LogoType: t.LogoType, SVG: h.sanitizer.Sanitize(t.SVGCode)})
		}
		view.Projects = append(view.Projects, card)
	}

	h.render(c, http.StatusOK, "index", view)
}

func (h *Handler) project(c *gin.Context) {
	p, err := h.pages.GetProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrProjectNotFound) {
		h.render(c, http.StatusNotFound, "not_found", notFoundView{Title: "Not found", Message: "This project does not exist."})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context(), h.log).WithError(err).Error("failed to load project")
		h.render(c, http.StatusInternalServerError, "not_found", notFoundView{
			Title:   "Error",
			Error:   "Failed to load project: " + err.Error(),
			Message: "The project could not be loaded.",
		})
		return
	}

	view := projectView{Title: p.CompanyName(), Project: p}
	for _, t := range domain.AllLogoTypes {
		slot := slotView{Type: t}
		if lc, ok := p.Concept(t); ok {
			slot.Concept = &conceptView{
				ID:          lc.ID,
				ConceptName: lc.ConceptName,
				Rationale:   lc.Rationale,
				IsFavorite:  lc.IsFavorite,
				SVG:         h.sanitizer.Sanitize(lc.SVGCode),
			}
		}
		view.Slots = append(view.Slots, slot)
	}

	h.render(c, http.StatusOK, "project", view)
}

func (h *Handler) render(c *gin.Context, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(c.Request.Context(), h.log).WithError(err).WithField("page", page).Error("failed to render page")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
