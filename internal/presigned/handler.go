package presigned

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abduss/storeit/internal/auth"
	"github.com/abduss/storeit/internal/file"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileLookup interface {
	Get(ctx context.Context, ownerID, fileID uuid.UUID) (file.Record, error)
}

type Handler struct {
	presignedService *Service
	files            FileLookup
	guest            file.GuestSource
}

func NewHandler(ps *Service, files FileLookup, guest file.GuestSource) *Handler {
	return &Handler{
		presignedService: ps,
		files:            files,
		guest:            guest,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/:fileID/link", h.GenerateLink)
}

// GenerateLink returns a presigned link to a file. Query parameters:
// disposition=inline|attachment (default inline) and ttl (Go duration).
func (h *Handler) GenerateLink(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fileID"})
		return
	}

	disposition := c.DefaultQuery("disposition", "inline")
	if disposition != "inline" && disposition != "attachment" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid disposition"})
		return
	}

	ttl := h.presignedService.TTL()
	if ttlParam := c.Query("ttl"); ttlParam != "" {
		ttl, err = time.ParseDuration(ttlParam)
		if err != nil || ttl <= 0 || ttl > MaxTTL {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ttl"})
			return
		}
	}

	if session.IsGuest(c) {
		rec, found := h.guest.File(fileID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": rec.URL, "disposition": disposition})
		return
	}

	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rec, err := h.files.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.FromContext(c).Error("lookup file for link", zap.String("file_id", fileID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate link"})
		return
	}

	var url string
	if disposition == "attachment" {
		url, err = h.presignedService.DownloadURLWithTTL(c.Request.Context(), rec.ObjectName, rec.Name, ttl)
	} else {
		url, err = h.presignedService.ViewURLWithTTL(c.Request.Context(), rec.ObjectName, ttl)
	}
	if err != nil {
		logger.FromContext(c).Error("presign file", zap.String("file_id", fileID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":         url,
		"disposition": disposition,
		"expires":     time.Now().Add(ttl),
	})
}
