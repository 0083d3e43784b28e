package routes

import (
	"github.com/gin-gonic/gin"

	brandinghttp "github.com/sanjitr11/semiotic-logo-generator/internal/branding/http"
)

type APIDeps struct {
	Service brandinghttp.ProjectService
}

// RegisterAPI mounts the JSON API under /api.
func RegisterAPI(r *gin.Engine, dep APIDeps) {
	api := r.Group("/api")
	brandinghttp.New(dep.Service).Register(api)
}
