package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/sse"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

const completedMessage = "Analysis completed successfully"

// AnalysisService drives one background run per session: extract every file,
// score it, aggregate the content, and write progress into the session store
// as it goes. At most one run is active per session; a Start against a
// processing session reports the current state instead of spawning another.
type AnalysisService interface {
	// Start kicks off a background run and returns the acknowledged state.
	// started is false when the session was already processing.
	Start(id string) (state types.AnalysisState, started bool, err error)
}

type analysisService struct {
	mu        sync.Mutex
	log       *logger.Logger
	store     SessionStore
	extractor ContentExtractor
	hub       *sse.Hub
	uploadDir string
}

func NewAnalysisService(log *logger.Logger, store SessionStore, extractor ContentExtractor, hub *sse.Hub, uploadDir string) AnalysisService {
	return &analysisService{
		log:       log.With("service", "AnalysisService"),
		store:     store,
		extractor: extractor,
		hub:       hub,
		uploadDir: uploadDir,
	}
}

func (s *analysisService) Start(id string) (types.AnalysisState, bool, error) {
	// Check-and-seed under one lock so two concurrent starts cannot both
	// launch a run for the same session.
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(id)
	if err != nil {
		return types.AnalysisState{}, false, err
	}
	if sess.State.Status == types.AnalysisStatusProcessing {
		return sess.State, false, nil
	}

	seed := types.AnalysisState{
		SessionID: id,
		Status:    types.AnalysisStatusStarting,
		Progress:  0,
		Message:   "Initializing analysis...",
		Results:   []types.FileResult{},
	}
	s.store.SetState(id, seed)

	s.log.Info("Starting analysis", "session_id", id, "files", len(sess.Files))
	go s.run(id, sess.Files)

	return seed, true, nil
}

func (s *analysisService) run(id string, files []types.UploadedFile) {
	defer func() {
		if r := recover(); r != nil {
			detail := fmt.Sprintf("%v", r)
			s.log.Error("Async processing error", "session_id", id, "panic", r)
			s.store.SetState(id, types.AnalysisState{
				SessionID: id,
				Status:    types.AnalysisStatusError,
				Progress:  0,
				Message:   "Analysis failed: " + detail,
				Results:   []types.FileResult{},
				Error:     detail,
			})
			s.broadcast(id, sse.EventAnalysisFailed)
		}
	}()

	ctx := context.Background()
	dir := filepath.Join(s.uploadDir, id)
	total := len(files)

	s.store.SetStatus(id, types.AnalysisStatusProcessing, fmt.Sprintf("Processing %d files...", total))
	s.broadcast(id, sse.EventAnalysisProgress)

	var allContent []string
	results := make([]types.FileResult, 0, total)

	for i, file := range files {
		// The first 80% of the progress range is reserved for per-file work.
		progress := i * 80 / total
		s.store.UpdateProgress(id, progress, fmt.Sprintf("Processing %s...", file.Filename))
		s.broadcast(id, sse.EventAnalysisProgress)

		onProgress := func(msg string) {
			s.store.UpdateProgress(id, progress, msg)
			s.broadcast(id, sse.EventAnalysisProgress)
		}

		content, err := s.extractor.Extract(ctx, dir, file, onProgress)
		if err != nil {
			s.log.Error("Error processing file", "session_id", id, "filename", file.Filename, "error", err)
			results = append(results, types.FileResult{
				Filename: file.Filename,
				FileType: file.FileType,
				Content:  "",
				Score:    0,
				Status:   types.ScoreStatusError,
				Error:    err.Error(),
			})
			continue
		}

		score := ExtractionScore(content)
		results = append(results, types.FileResult{
			Filename: file.Filename,
			FileType: file.FileType,
			Content:  content,
			Score:    score,
			Status:   ScoreStatus(score),
		})
		if strings.TrimSpace(content) != "" {
			allContent = append(allContent, content)
		}
	}

	s.store.SetState(id, types.AnalysisState{
		SessionID:    id,
		Status:       types.AnalysisStatusCompleted,
		Progress:     100,
		Message:      completedMessage,
		Results:      results,
		OverallScore: overallScore(results),
		AllContent:   strings.Join(allContent, "\n\n"),
	})
	s.broadcast(id, sse.EventAnalysisCompleted)
	s.log.Info("Analysis completed", "session_id", id, "files", total)
}

// overallScore is the mean of the strictly positive per-file scores; files
// that scored 0 (including every errored file) are excluded. No positive
// score means 0.
func overallScore(results []types.FileResult) float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Score > 0 {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (s *analysisService) broadcast(id string, event sse.Event) {
	if s.hub == nil {
		return
	}
	state, err := s.store.GetState(id)
	if err != nil {
		return
	}
	s.hub.Broadcast(sse.Message{Channel: id, Event: event, Data: state})
}
