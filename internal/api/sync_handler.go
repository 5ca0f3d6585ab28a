package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	syncsvc "cvforge/internal/sync"
)

// SyncHandler exposes achievement sync over HTTP.
type SyncHandler struct {
	svc *syncsvc.Service
}

func NewSyncHandler(svc *syncsvc.Service) *SyncHandler {
	return &SyncHandler{svc: svc}
}

type syncRequest struct {
	ResumeID uint `json:"resumeId"`
}

func (h *SyncHandler) SyncAchievements(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 {
		BadRequest(c, "resumeId is required")
		return
	}

	summary, err := h.svc.Sync(c.Request.Context(), req.ResumeID)
	if err != nil {
		if errors.Is(err, syncsvc.ErrResumeNotFound) {
			NotFound(c, "resume not found")
			return
		}
		if logger := middleware.LoggerFromContext(c); logger != nil {
			logger.Error("achievement sync failed",
				slog.Uint64("resume_id", uint64(req.ResumeID)),
				slog.Any("error", err))
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
