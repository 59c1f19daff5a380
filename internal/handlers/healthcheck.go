package handlers

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/clients/gcp"
	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/services"
)

const apiVersion = "1.0.0"

type HealthcheckHandler struct {
	log       *logger.Logger
	store     services.SessionStore
	uploadDir string
}

func NewHealthcheckHandler(log *logger.Logger, store services.SessionStore, uploadDir string) *HealthcheckHandler {
	return &HealthcheckHandler{
		log:       log.With("handler", "HealthcheckHandler"),
		store:     store,
		uploadDir: uploadDir,
	}
}

// GET /api/health
func (h *HealthcheckHandler) Health(c *gin.Context) {
	uploadDirOK := false
	if info, err := os.Stat(h.uploadDir); err == nil && info.IsDir() {
		uploadDirOK = true
	}

	RespondOK(c, gin.H{
		"status":                 "healthy",
		"timestamp":              time.Now().UTC().Format(time.RFC3339),
		"active_sessions":        h.store.Count(),
		"upload_dir_accessible":  uploadDirOK,
		"credentials_configured": gcp.CredentialsConfigured(),
		"version":                apiVersion,
	})
}
