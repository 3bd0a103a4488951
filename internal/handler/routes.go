package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/orgs-directory-service/pkg/response"
)

// Register mounts middleware and all public routes on the given engine.
func Register(r *gin.Engine, deps Dependencies) {
	r.Use(gin.Recovery(), RequestID(), AccessLog(deps.Logger), CORS(deps.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := NewHealthHandler(deps.Pinger)
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	RegisterDocs(r, deps.OpenAPIPath)

	NewOrgHandler(deps.Orgs).Register(r.Group(""))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorPayload{Error: "not_found", Message: "Resource not found"})
	})
}
