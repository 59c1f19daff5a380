package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/services"
)

func TestHealth_ReportsStoreAndUploadDir(t *testing.T) {
	store := services.NewSessionStore(testLogger())
	store.Create(nil)
	store.Create(nil)

	h := NewHealthcheckHandler(testLogger(), store, t.TempDir())
	r := gin.New()
	r.GET("/api/health", h.Health)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Status              string `json:"status"`
		ActiveSessions      int    `json:"active_sessions"`
		UploadDirAccessible bool   `json:"upload_dir_accessible"`
		Version             string `json:"version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.ActiveSessions != 2 {
		t.Fatalf("active_sessions = %d", resp.ActiveSessions)
	}
	if !resp.UploadDirAccessible {
		t.Fatalf("upload dir should be accessible")
	}
	if resp.Version == "" {
		t.Fatalf("missing version")
	}
}

func TestHealth_MissingUploadDir(t *testing.T) {
	store := services.NewSessionStore(testLogger())
	h := NewHealthcheckHandler(testLogger(), store, "/definitely/not/a/real/dir")
	r := gin.New()
	r.GET("/api/health", h.Health)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		UploadDirAccessible bool `json:"upload_dir_accessible"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.UploadDirAccessible {
		t.Fatalf("upload dir should not be accessible")
	}
}
