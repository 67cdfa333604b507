package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

var errBackendMissing = errors.New("not configured")

func registerHealthRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		if result := deps.Config.Validate(); !result.Valid {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "degraded",
				"component": "config",
				"errors":    result.Errors,
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := checkPostgres(ctx, deps); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "degraded",
				"component": "postgres",
				"error":     err.Error(),
			})
			return
		}

		if err := checkMinIO(ctx, deps); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "degraded",
				"component": "minio",
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func checkPostgres(ctx context.Context, deps Dependencies) error {
	if deps.DB == nil {
		return errBackendMissing
	}
	return deps.DB.Ping(ctx)
}

func checkMinIO(ctx context.Context, deps Dependencies) error {
	if deps.ObjectStore == nil {
		return errBackendMissing
	}
	exists, err := deps.ObjectStore.BucketExists(ctx, deps.Config.MinIO.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", deps.Config.MinIO.Bucket)
	}
	return nil
}
