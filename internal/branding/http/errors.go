package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

// writeError maps err to a status. Validation errors are 400, missing
// records 404, anything else 500 with the cause in details.
func writeError(c *gin.Context, failure string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTranscript),
		errors.Is(err, domain.ErrInvalidLogoType),
		errors.Is(err, domain.ErrNoBrandAnalysis):
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequestMessage(err)})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrConceptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Logo concept not found"})
	default:
		logging.FromContext(c.Request.Context(), nil).WithError(err).Error(failure)

		body := gin.H{"error": failure, "details": err.Error()}
		var pErr *service.PipelineError
		if errors.As(err, &pErr) && pErr.ProjectID != "" {
			body["projectId"] = pErr.ProjectID
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func badRequestMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoBrandAnalysis):
		return "Project has no brand analysis. Analyze the transcript first."
	case errors.Is(err, domain.ErrInvalidLogoType):
		return "Invalid logoType. Must be: wordmark, pictorial, or abstract"
	default:
		return err.Error()
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
