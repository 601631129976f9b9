package api

import (
	"github.com/gin-gonic/gin"
	"github.com/unicornmarketers/pageforge/internal/ginserver"
)

// SetupRoutes configures all API routes.
// Generation endpoints are public (driven by internal tooling within the
// Docker network). Read endpoints are protected with JWT.
func SetupRoutes(router *gin.Engine, jobsHandler *JobsHandler, pagesHandler *PagesHandler, jwtSecret string) {
	public, protected := ginserver.SetupAPIRoutesWithPublic(router, jwtSecret)

	// Pipeline (write path) — public, called by the dashboard backend
	public.POST("/generate", jobsHandler.CreateJob)
	public.POST("/generate/:jobID/step/:stepName", jobsHandler.RunStep)

	// Job and page reads — protected
	protected.GET("/generate/:jobID/status", jobsHandler.GetStatus)
	protected.GET("/pages/:pageID", pagesHandler.GetPage)
}
