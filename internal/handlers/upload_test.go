package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/services"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

func newUploadRouter(t *testing.T) (*gin.Engine, services.SessionStore, string) {
	t.Helper()
	store := services.NewSessionStore(testLogger())
	dir := t.TempDir()
	h := NewUploadHandler(testLogger(), store, dir)

	r := gin.New()
	r.POST("/api/upload", h.Upload)
	return r, store, dir
}

func TestFileTypeFor(t *testing.T) {
	cases := []struct {
		name     string
		wantType types.FileType
		wantOK   bool
	}{
		{"notes.txt", types.FileTypeDocument, true},
		{"scan.PDF", types.FileTypeDocument, true},
		{"photo.JPEG", types.FileTypeDocument, true},
		{"lecture.mp3", types.FileTypeAudio, true},
		{"voice.M4A", types.FileTypeAudio, true},
		{"malware.exe", "", false},
		{"noextension", "", false},
	}
	for _, tc := range cases {
		gotType, gotOK := FileTypeFor(tc.name)
		if gotType != tc.wantType || gotOK != tc.wantOK {
			t.Fatalf("FileTypeFor(%q) = %q,%v want %q,%v", tc.name, gotType, gotOK, tc.wantType, tc.wantOK)
		}
	}
}

func TestUpload_SavesFilesAndCreatesSession(t *testing.T) {
	r, store, dir := newUploadRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"my notes.txt": "hello world",
		"lecture.mp3":  "fake audio bytes",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string               `json:"session_id"`
		Files     []types.UploadedFile `json:"files"`
		Message   string               `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatalf("missing session_id")
	}
	if resp.Message != "Successfully uploaded 2 files" {
		t.Fatalf("message = %q", resp.Message)
	}
	if store.Count() != 1 {
		t.Fatalf("store count = %d", store.Count())
	}

	for _, f := range resp.Files {
		if strings.Contains(f.Filename, " ") {
			t.Fatalf("stored filename not sanitized: %q", f.Filename)
		}
		path := filepath.Join(dir, resp.SessionID, f.Filename)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("uploaded file missing on disk: %v", err)
		}
	}
}

func TestUpload_RejectsUnsupportedExtension(t *testing.T) {
	r, store, _ := newUploadRouter(t)

	body, contentType := multipartBody(t, map[string]string{"tool.exe": "MZ"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Unsupported file type: tool.exe") {
		t.Fatalf("body = %s", w.Body.String())
	}
	if store.Count() != 0 {
		t.Fatalf("session should not be created on rejection")
	}
}

func TestUpload_NoFiles(t *testing.T) {
	r, _, _ := newUploadRouter(t)

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
