package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unicornmarketers/pageforge/internal/api"
	"github.com/unicornmarketers/pageforge/internal/config"
	"github.com/unicornmarketers/pageforge/internal/database"
	"github.com/unicornmarketers/pageforge/internal/fetcher"
	"github.com/unicornmarketers/pageforge/internal/generator"
	"github.com/unicornmarketers/pageforge/internal/ginserver"
	"github.com/unicornmarketers/pageforge/internal/logger"
	"github.com/unicornmarketers/pageforge/internal/pipeline"
)

const healthCheckTimeout = 2 * time.Second

// SetupHTTPServer creates the HTTP server with the pipeline service and all
// handlers wired.
func SetupHTTPServer(cfg *config.Config, db *database.Connection, log logger.Logger) (*ginserver.Server, error) {
	gen, genErr := generator.NewAnthropic(generator.AnthropicConfig{
		APIKey:  cfg.Generator.APIKey,
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.Timeout,
	}, log)
	if genErr != nil {
		return nil, fmt.Errorf("generator: %w", genErr)
	}

	pageRepo := database.NewPageRepository(db.DB)

	pipelineSvc := pipeline.NewService(pipeline.Deps{
		Jobs:      database.NewJobRepository(db.DB),
		Clients:   database.NewClientRepository(db.DB),
		Claims:    database.NewClaimRepository(db.DB),
		Pages:     pageRepo,
		Templates: database.NewTemplateRepository(db.DB),
		Generator: gen,
		Fetcher: fetcher.New(fetcher.Config{
			Timeout:   cfg.Fetcher.Timeout,
			UserAgent: cfg.Fetcher.UserAgent,
		}, log),
		Logger: log,
	})

	jobsHandler := api.NewJobsHandler(pipelineSvc)
	pagesHandler := api.NewPagesHandler(pageRepo)

	serverCfg := &ginserver.Config{
		Port:           cfg.Service.Port,
		Debug:          cfg.Service.Debug,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
	}

	checks := map[string]ginserver.HealthChecker{
		"database": ginserver.DatabaseHealthChecker(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return db.Ping(ctx)
		}),
	}

	server := ginserver.NewServer(serverCfg, log, checks, func(router *gin.Engine) {
		api.SetupRoutes(router, jobsHandler, pagesHandler, cfg.Auth.JWTSecret)
	})

	return server, nil
}
