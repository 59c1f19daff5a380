package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

// ContentExtractor is the single entry point the analysis run uses per file.
// Failures are returned to the caller and recorded against that file only;
// they never abort the sibling files of a session.
type ContentExtractor interface {
	Extract(ctx context.Context, dir string, file types.UploadedFile, onProgress func(string)) (string, error)
}

type contentExtractor struct {
	log      *logger.Logger
	document DocumentExtractService
	audio    AudioExtractService
}

func NewContentExtractor(log *logger.Logger, document DocumentExtractService, audio AudioExtractService) ContentExtractor {
	return &contentExtractor{
		log:      log.With("service", "ContentExtractor"),
		document: document,
		audio:    audio,
	}
}

func (e *contentExtractor) Extract(ctx context.Context, dir string, file types.UploadedFile, onProgress func(string)) (string, error) {
	path := filepath.Join(dir, file.Filename)
	switch file.FileType {
	case types.FileTypeDocument:
		return e.document.ExtractFile(ctx, path)
	case types.FileTypeAudio:
		return e.audio.ExtractFile(ctx, path, onProgress)
	default:
		return "", fmt.Errorf("unknown file type %q for %s", file.FileType, file.Filename)
	}
}
