package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/transcript"
)

const maxUploadBytes = 5 << 20

// ProjectService is what the handlers need. *service.Service implements it.
type ProjectService interface {
	Analyze(ctx context.Context, t domain.Transcript) (*service.AnalyzeResult, error)
	Generate(ctx context.Context, projectID string, t domain.LogoType, variant int) (*domain.LogoConcept, error)
	Regenerate(ctx context.Context, projectID string, t domain.LogoType, variant int) (*domain.LogoConcept, error)
	RegenerateAll(ctx context.Context, projectID string) ([]domain.LogoConcept, error)
	GetProject(ctx context.Context, id string) (*domain.ProjectWithLogos, error)
	ListProjects(ctx context.Context, limit int) ([]domain.ProjectSummary, error)
	GetConcept(ctx context.Context, id string) (*domain.LogoConcept, error)
	SetFavorite(ctx context.Context, id string, favorite bool) (*domain.LogoConcept, error)
	DeleteConcept(ctx context.Context, id string) error
}

type Handler struct {
	svc ProjectService
}

func New(svc ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) analyze(c *gin.Context) {
	t, err := readTranscript(c)
	if err != nil {
		badRequest(c, transcriptMessage(err))
		return
	}

	res, err := h.svc.Analyze(c.Request.Context(), t)
	if err != nil {
		writeError(c, "Failed to analyze transcript", err)
		return
	}

	c.JSON(http.StatusOK, analyzeResp{
		ProjectID:     res.ProjectID,
		BrandAnalysis: res.BrandAnalysis,
		Logos:         toConceptDTOs(res.Logos),
	})
}

var (
	errTranscriptShape = errors.New("transcript is not an array of entries")
	errMissingFile     = errors.New(`missing form field "file"`)
	errFileTooLarge    = errors.New("transcript file exceeds upload limit")
)

func transcriptMessage(err error) string {
	switch {
	case errors.Is(err, errTranscriptShape):
		return "Invalid transcript format. Expected array of transcript entries."
	case errors.Is(err, errMissingFile):
		return `Missing transcript file in form field "file"`
	case errors.Is(err, errFileTooLarge):
		return "Transcript file is too large"
	default:
		return err.Error()
	}
}

// readTranscript accepts a JSON body {transcript: [...]} or a multipart
// upload in field "file" holding the transcript array.
func readTranscript(c *gin.Context) (domain.Transcript, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, errMissingFile
		}
		if fh.Size > maxUploadBytes {
			return nil, errFileTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, err
		}
		return transcript.Parse(raw)
	}

	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errTranscriptShape
	}
	raw := strings.TrimSpace(string(req.Transcript))
	if !strings.HasPrefix(raw, "[") {
		return nil, errTranscriptShape
	}

	var t domain.Transcript
	if err := json.Unmarshal(req.Transcript, &t); err != nil {
		return nil, errTranscriptShape
	}
	if err := transcript.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (h *Handler) generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" || req.LogoType == "" {
		badRequest(c, "Missing required fields: projectId and logoType")
		return
	}
	lt, err := domain.ParseLogoType(req.LogoType)
	if err != nil {
		writeError(c, "Failed to generate logo", err)
		return
	}

	concept, err := h.svc.Generate(c.Request.Context(), req.ProjectID, lt, req.Variant)
	if err != nil {
		writeError(c, "Failed to generate logo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"concept": toConceptDTO(*concept)})
}

func (h *Handler) regenerate(c *gin.Context) {
	var req regenerateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
		badRequest(c, "Missing required field: projectId")
		return
	}

	if req.RegenerateAll {
		concepts, err := h.svc.RegenerateAll(c.Request.Context(), req.ProjectID)
		if err != nil {
			writeError(c, "Failed to regenerate logo", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"concepts": toConceptDTOs(concepts)})
		return
	}

	if req.LogoType == "" {
		badRequest(c, "Missing logoType for single regeneration")
		return
	}
	lt, err := domain.ParseLogoType(req.LogoType)
	if err != nil {
		writeError(c, "Failed to regenerate logo", err)
		return
	}

	concept, err := h.svc.Regenerate(c.Request.Context(), req.ProjectID, lt, req.Variant)
	if err != nil {
		writeError(c, "Failed to regenerate logo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"concept": toConceptDTO(*concept)})
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to get project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": projectDTO{
		ID:            p.ID,
		CreatedAt:     p.CreatedAt,
		Status:        p.Status,
		ErrorMessage:  p.ErrorMessage,
		BrandAnalysis: p.BrandAnalysis,
		LogoConcepts:  toConceptDTOs(p.LogoConcepts),
	}})
}

func (h *Handler) listProjects(c *gin.Context) {
	list, err := h.svc.ListProjects(c.Request.Context(), service.DefaultListLimit)
	if err != nil {
		writeError(c, "Failed to get projects", err)
		return
	}

	out := make([]projectSummaryDTO, len(list))
	for i, s := range list {
		out[i] = toSummaryDTO(s)
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (h *Handler) setFavorite(c *gin.Context) {
	var req favoriteReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFavorite == nil {
		badRequest(c, "Missing required field: isFavorite")
		return
	}

	concept, err := h.svc.SetFavorite(c.Request.Context(), c.Param("id"), *req.IsFavorite)
	if err != nil {
		writeError(c, "Failed to update favorite", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"concept": toConceptDTO(*concept)})
}

func (h *Handler) deleteConcept(c *gin.Context) {
	if err := h.svc.DeleteConcept(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Failed to delete logo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var nonFilename = regexp.MustCompile(`\s+`)

// DownloadName is the file name offered for a concept's SVG.
func DownloadName(conceptName string) string {
	name := strings.ToLower(nonFilename.ReplaceAllString(strings.TrimSpace(conceptName), "-"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "logo"
	}
	return name + ".svg"
}

func (h *Handler) downloadSVG(c *gin.Context) {
	concept, err := h.svc.GetConcept(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to get logo", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DownloadName(concept.ConceptName)))
	c.Data(http.StatusOK, "image/svg+xml", []byte(concept.SVGCode))
}
