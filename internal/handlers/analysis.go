package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/services"
	"github.com/Dheolarh/SkoolMeBackend/internal/sse"
)

type AnalysisHandler struct {
	log       *logger.Logger
	store     services.SessionStore
	analysis  services.AnalysisService
	hub       *sse.Hub
	uploadDir string
}

func NewAnalysisHandler(log *logger.Logger, store services.SessionStore, analysis services.AnalysisService, hub *sse.Hub, uploadDir string) *AnalysisHandler {
	return &AnalysisHandler{
		log:       log.With("handler", "AnalysisHandler"),
		store:     store,
		analysis:  analysis,
		hub:       hub,
		uploadDir: uploadDir,
	}
}

type analyzeRequest struct {
	SessionID string `json:"session_id"`
}

// POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		RespondError(c, http.StatusBadRequest, "Session ID required", "")
		return
	}

	_, started, err := h.analysis.Start(req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "Session not found", "")
			return
		}
		RespondError(c, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	message := "Analysis started"
	if !started {
		message = "Analysis already in progress"
	}
	RespondOK(c, gin.H{
		"session_id": req.SessionID,
		"message":    message,
		"status":     "processing",
	})
}

// GET /api/progress/:session_id
func (h *AnalysisHandler) Progress(c *gin.Context) {
	id := c.Param("session_id")
	state, err := h.store.GetState(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "Session not found", "")
		return
	}
	RespondOK(c, state)
}

// GET /api/progress/:session_id/stream
func (h *AnalysisHandler) ProgressStream(c *gin.Context) {
	id := c.Param("session_id")
	if _, err := h.store.GetState(id); err != nil {
		RespondError(c, http.StatusNotFound, "Session not found", "")
		return
	}

	client := h.hub.NewClient()
	h.hub.AddChannel(client, id)
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

// DELETE /api/cleanup/:session_id
// Never fatal: cleaning up an unknown session is a no-op.
func (h *AnalysisHandler) Cleanup(c *gin.Context) {
	id := c.Param("session_id")

	sessionDir := filepath.Join(h.uploadDir, id)
	if err := os.RemoveAll(sessionDir); err != nil {
		h.log.Warn("Cleanup of session files failed", "session_id", id, "error", err)
	}
	h.store.Delete(id)

	RespondOK(c, gin.H{"message": "Session cleaned up successfully"})
}
