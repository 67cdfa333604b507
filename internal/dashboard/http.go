// Package dashboard serves the landing page data: storage usage per category
// and the most recent uploads.
package dashboard

import (
	"context"
	"net/http"

	"github.com/abduss/storeit/internal/auth"
	"github.com/abduss/storeit/internal/file"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/session"
	"github.com/abduss/storeit/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentLimit = 10

type reportSource interface {
	Report(ctx context.Context, ownerID uuid.UUID) (usage.Report, error)
}

type recentSource interface {
	Recent(ctx context.Context, ownerID uuid.UUID) ([]file.Record, error)
}

// GuestSource provides the dashboard data shown to guests.
type GuestSource interface {
	Totals() usage.Totals
	Files(filter file.ListFilter) []file.Record
}

// Dashboard is the response body of GET /dashboard.
type Dashboard struct {
	usage.Report
	Recent []file.Record `json:"recent"`
}

// RegisterRoutes mounts the dashboard endpoint.
func RegisterRoutes(group *gin.RouterGroup, reports reportSource, files recentSource, guest GuestSource) {
	handler := &httpHandler{reports: reports, files: files, guest: guest}
	group.GET("/dashboard", handler.getDashboard)
}

type httpHandler struct {
	reports reportSource
	files   recentSource
	guest   GuestSource
}

func (h *httpHandler) getDashboard(c *gin.Context) {
	if session.IsGuest(c) {
		c.JSON(http.StatusOK, Dashboard{
			Report: usage.BuildReport(h.guest.Totals()),
			Recent: h.guest.Files(file.ListFilter{Sort: file.DefaultSort, Limit: recentLimit}),
		})
		return
	}

	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	report, err := h.reports.Report(c.Request.Context(), userID)
	if err != nil {
		logger.FromContext(c).Error("load usage report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	recent, err := h.files.Recent(c.Request.Context(), userID)
	if err != nil {
		logger.FromContext(c).Error("load recent files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	if recent == nil {
		recent = []file.Record{}
	}

	c.JSON(http.StatusOK, Dashboard{Report: report, Recent: recent})
}
