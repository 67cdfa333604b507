package file

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/abduss/storeit/internal/auth"
	"github.com/abduss/storeit/internal/filetype"
	"github.com/abduss/storeit/internal/format"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GuestSource serves the fixed records shown to guests.
type GuestSource interface {
	Files(filter ListFilter) []Record
	File(id uuid.UUID) (Record, bool)
}

// RegisterRoutes mounts file operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service, guest GuestSource) {
	handler := &httpHandler{service: service, guest: guest}
	group.POST("/files", handler.uploadFile)
	group.GET("/files", handler.listFiles)
	group.GET("/browse/:type", handler.browseFiles)
	group.GET("/files/:fileID/download", handler.downloadFile)
	group.PATCH("/files/:fileID", handler.renameFile)
	group.DELETE("/files/:fileID", handler.deleteFile)
}

type httpHandler struct {
	service *Service
	guest   GuestSource
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	rec, err := h.service.Upload(c.Request.Context(), userID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, ErrQuotaExceeded):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrMissingPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		default:
			logger.FromContext(c).Error("upload file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *httpHandler) listFiles(c *gin.Context) {
	filter := filterFromQuery(c, nil)
	records, ok := h.list(c, filter)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"files":      records,
		"total":      len(records),
		"total_size": format.Size(TotalSize(records)),
	})
}

func (h *httpHandler) browseFiles(c *gin.Context) {
	segment := c.Param("type")
	if !filetype.IsKnownRoute(segment) {
		logger.FromContext(c).Warn("unknown browse segment, listing documents", zap.String("segment", segment))
	}

	types := filetype.TypesForRoute(segment)
	records, ok := h.list(c, filterFromQuery(c, types))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":      filetype.RouteTitle(segment),
		"types":      types,
		"total_size": format.Size(TotalSize(records)),
		"files":      records,
	})
}

func (h *httpHandler) downloadFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if session.IsGuest(c) {
		rec, found := h.guest.File(fileID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.Redirect(http.StatusFound, rec.URL)
		return
	}

	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rec, reader, err := h.service.Download(c.Request.Context(), userID, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.FromContext(c).Error("download file", zap.String("file_id", fileID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to download file"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", rec.ContentType)
	c.Header("Content-Disposition", attachmentDisposition(rec.Name))
	c.Header("Content-Length", fmt.Sprintf("%d", rec.SizeBytes))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.FromContext(c).Warn("stream file", zap.String("file_id", fileID.String()), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
}

func (h *httpHandler) renameFile(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.Rename(c.Request.Context(), userID, fileID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		case errors.Is(err, ErrFileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			logger.FromContext(c).Error("rename file", zap.String("file_id", fileID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename file"})
		}
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, fileID); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.FromContext(c).Error("delete file", zap.String("file_id", fileID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *httpHandler) list(c *gin.Context, filter ListFilter) ([]Record, bool) {
	if session.IsGuest(c) {
		return h.guest.Files(filter), true
	}

	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	records, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		logger.FromContext(c).Error("list files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return nil, false
	}
	if records == nil {
		records = []Record{}
	}
	return records, true
}

// requireOwner rejects guests and returns the signed-in user's id.
func (h *httpHandler) requireOwner(c *gin.Context) (uuid.UUID, bool) {
	if session.IsGuest(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "sign in to modify files"})
		return uuid.Nil, false
	}
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// attachmentDisposition encodes non-ASCII names per RFC 2231.
func attachmentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

func filterFromQuery(c *gin.Context, types []filetype.Type) ListFilter {
	return ListFilter{
		Types:  types,
		Search: c.Query("query"),
		Sort:   ParseSort(c.Query("sort")),
		Limit:  ParseLimit(c.Query("limit")),
	}
}
