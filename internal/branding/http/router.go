package http

import "github.com/gin-gonic/gin"

// Register attaches the logo API routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/generate", h.generate)
	rg.POST("/regenerate", h.regenerate)
	rg.GET("/projects", h.listProjects)
	rg.GET("/project/:id", h.getProject)
	rg.PATCH("/logo/:id/favorite", h.setFavorite)
	rg.DELETE("/logo/:id", h.deleteConcept)
	rg.GET("/logo/:id/svg", h.downloadSVG)
}
