package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/services"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
	"github.com/Dheolarh/SkoolMeBackend/internal/utils"
)

const (
	maxDocumentSize = 100 * 1024 * 1024
	maxAudioSize    = 50 * 1024 * 1024
)

var (
	allowedDocumentExtensions = map[string]bool{
		"txt": true, "pdf": true, "docx": true,
		"png": true, "jpg": true, "jpeg": true, "bmp": true,
	}
	allowedAudioExtensions = map[string]bool{
		"mp3": true, "wav": true, "m4a": true,
	}
)

// FileTypeFor classifies a filename by extension, case-insensitive, against
// the two fixed allow-lists. Unrecognized extensions are rejected at upload
// time, not at analysis time.
func FileTypeFor(filename string) (types.FileType, bool) {
	ext := utils.FileExt(filename)
	if ext == "" {
		return "", false
	}
	if allowedDocumentExtensions[ext] {
		return types.FileTypeDocument, true
	}
	if allowedAudioExtensions[ext] {
		return types.FileTypeAudio, true
	}
	return "", false
}

type UploadHandler struct {
	log       *logger.Logger
	store     services.SessionStore
	uploadDir string
}

func NewUploadHandler(log *logger.Logger, store services.SessionStore, uploadDir string) *UploadHandler {
	return &UploadHandler{
		log:       log.With("handler", "UploadHandler"),
		store:     store,
		uploadDir: uploadDir,
	}
}

// POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "No files provided", err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 || allEmpty(headers) {
		RespondError(c, http.StatusBadRequest, "No files selected", "")
		return
	}

	files := make([]types.UploadedFile, 0, len(headers))
	keep := make([]*multipart.FileHeader, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}

		fileType, ok := FileTypeFor(fh.Filename)
		if !ok {
			RespondError(c, http.StatusBadRequest,
				fmt.Sprintf("Unsupported file type: %s", fh.Filename),
				"Please upload only supported file types")
			return
		}

		maxSize := int64(maxDocumentSize)
		maxLabel := "100MB"
		if fileType == types.FileTypeAudio {
			maxSize = maxAudioSize
			maxLabel = "50MB"
		}
		if fh.Size > maxSize {
			RespondError(c, http.StatusBadRequest,
				fmt.Sprintf("File too large: %s", fh.Filename),
				fmt.Sprintf("Maximum file size for %s files is %s", fileType, maxLabel))
			return
		}

		files = append(files, types.UploadedFile{
			Filename:     utils.SecureFilename(fh.Filename),
			OriginalName: fh.Filename,
			FileType:     fileType,
			Size:         fh.Size,
		})
		keep = append(keep, fh)
	}

	sess := h.store.Create(files)
	sessionDir := filepath.Join(h.uploadDir, sess.ID.String())
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		h.store.Delete(sess.ID.String())
		RespondError(c, http.StatusInternalServerError, "Upload failed", err.Error())
		return
	}

	for i, fh := range keep {
		dst := filepath.Join(sessionDir, files[i].Filename)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			h.log.Error("Upload save failed", "session_id", sess.ID.String(), "filename", files[i].Filename, "error", err)
			h.store.Delete(sess.ID.String())
			_ = os.RemoveAll(sessionDir)
			RespondError(c, http.StatusInternalServerError, "Upload failed", err.Error())
			return
		}
	}

	h.log.Info("Files uploaded", "session_id", sess.ID.String(), "count", len(files))
	RespondOK(c, gin.H{
		"session_id": sess.ID.String(),
		"files":      files,
		"message":    fmt.Sprintf("Successfully uploaded %d files", len(files)),
	})
}

func allEmpty(headers []*multipart.FileHeader) bool {
	for _, fh := range headers {
		if fh.Filename != "" {
			return false
		}
	}
	return true
}
