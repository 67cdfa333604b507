package server

import (
	"context"

	"github.com/abduss/storeit/internal/auth"
	"github.com/abduss/storeit/internal/config"
	"github.com/abduss/storeit/internal/dashboard"
	"github.com/abduss/storeit/internal/file"
	"github.com/abduss/storeit/internal/guest"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/metrics"
	"github.com/abduss/storeit/internal/presigned"
	"github.com/abduss/storeit/internal/usage"
	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BucketChecker is satisfied by *minio.Client.
type BucketChecker interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config           config.Config
	DB               Pinger
	ObjectStore      BucketChecker
	AuthService      *auth.Service
	FileService      *file.Service
	FileLookup       presigned.FileLookup
	UsageService     *usage.Service
	PresignedService *presigned.Service
	Guest            *guest.Dataset
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	metrics.InitMetrics()
	if deps.Guest == nil {
		deps.Guest = guest.NewDataset()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/v1")
	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService, deps.Config.Session)

		protected := api.Group("/")
		protected.Use(auth.SessionMiddleware(deps.AuthService, deps.Config.Session))
		auth.RegisterSessionRoutes(protected, deps.AuthService)

		if deps.FileService != nil {
			file.RegisterRoutes(protected, deps.FileService, deps.Guest)
			if deps.UsageService != nil {
				dashboard.RegisterRoutes(protected, deps.UsageService, deps.FileService, deps.Guest)
			}
		}
		if deps.PresignedService != nil && deps.FileLookup != nil {
			presigned.NewHandler(deps.PresignedService, deps.FileLookup, deps.Guest).RegisterRoutes(protected)
		}
	}

	return router
}
