package types

import (
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileTypeDocument FileType = "document"
	FileTypeAudio    FileType = "audio"
)

type UploadedFile struct {
	Filename     string   `json:"filename"`
	OriginalName string   `json:"original_name"`
	FileType     FileType `json:"file_type"`
	Size         int64    `json:"size"`
}

type Session struct {
	ID        uuid.UUID      `json:"session_id"`
	Files     []UploadedFile `json:"files"`
	State     AnalysisState  `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
}
