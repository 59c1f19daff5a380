package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/services"
)

const fallbackContent = "General course content based on the provided title."

type CourseHandler struct {
	log       *logger.Logger
	store     services.SessionStore
	coursegen services.CourseGenService
}

func NewCourseHandler(log *logger.Logger, store services.SessionStore, coursegen services.CourseGenService) *CourseHandler {
	return &CourseHandler{
		log:       log.With("handler", "CourseHandler"),
		store:     store,
		coursegen: coursegen,
	}
}

type generateCourseRequest struct {
	CourseTitle      string `json:"course_title"`
	SessionID        string `json:"session_id"`
	ExtractedContent string `json:"extracted_content"`
	AdditionalNotes  string `json:"additional_notes"`
}

// POST /api/generate-course
//
// Content is resolved in precedence order: explicit extracted_content, then
// the aggregated content of a completed analysis session, then the
// additional notes alone, and finally a generic stub so a bare title still
// yields a course.
func (h *CourseHandler) GenerateCourse(c *gin.Context) {
	var req generateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if strings.TrimSpace(req.CourseTitle) == "" {
		RespondError(c, http.StatusBadRequest, "Course title is required", "")
		return
	}

	content := req.ExtractedContent
	if content == "" && req.SessionID != "" {
		sessionContent, err := services.SessionContent(h.store, req.SessionID)
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			RespondError(c, http.StatusNotFound, "Session not found", "")
			return
		case errors.Is(err, services.ErrAnalysisNotReady):
			RespondError(c, http.StatusBadRequest, "Analysis not completed for this session", "")
			return
		case errors.Is(err, services.ErrNoContent):
			RespondError(c, http.StatusBadRequest, "No content available for course generation", "")
			return
		case err != nil:
			RespondError(c, http.StatusInternalServerError, "Course generation failed", err.Error())
			return
		}
		content = sessionContent
	}
	if content == "" && req.AdditionalNotes != "" {
		content = req.AdditionalNotes
	}
	if content == "" {
		content = fallbackContent
	}

	structure := h.coursegen.Generate(content, req.CourseTitle, req.AdditionalNotes)

	h.log.Info("Course generated", "course_title", req.CourseTitle, "content_length", utf8.RuneCountInString(content))
	RespondOK(c, gin.H{
		"success":          true,
		"course_structure": structure,
		"course_title":     req.CourseTitle,
		"content_length":   utf8.RuneCountInString(content),
		"generated_at":     time.Now().UTC().Format(time.RFC3339),
	})
}
