package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

type fakeOutput struct {
	content string
	err     error
	panics  string
}

type fakeExtractor struct {
	mu      sync.Mutex
	calls   int
	outputs map[string]fakeOutput
	block   chan struct{}
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, file types.UploadedFile, _ func(string)) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls++
	out := f.outputs[file.Filename]
	f.mu.Unlock()
	if out.panics != "" {
		panic(out.panics)
	}
	return out.content, out.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitForStatus(t *testing.T, store SessionStore, id string, want types.AnalysisStatus) types.AnalysisState {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		state, err := store.GetState(id)
		if err == nil && state.Status == want {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	state, _ := store.GetState(id)
	t.Fatalf("session %s never reached %q, last state %+v", id, want, state)
	return types.AnalysisState{}
}

func newTestRun(t *testing.T, files []types.UploadedFile, fake *fakeExtractor) (SessionStore, AnalysisService, string) {
	t.Helper()
	store := NewSessionStore(testLogger())
	sess := store.Create(files)
	svc := NewAnalysisService(testLogger(), store, fake, nil, t.TempDir())
	return store, svc, sess.ID.String()
}

func TestAnalysis_CompletesAndAggregates(t *testing.T) {
	files := []types.UploadedFile{
		{Filename: "a.txt", FileType: types.FileTypeDocument},
		{Filename: "b.txt", FileType: types.FileTypeDocument},
		{Filename: "c.txt", FileType: types.FileTypeDocument},
	}
	fake := &fakeExtractor{outputs: map[string]fakeOutput{
		"a.txt": {content: strings.Repeat("a", 1000)},
		"b.txt": {content: strings.Repeat("b", 500)},
		"c.txt": {content: ""},
	}}
	store, svc, id := newTestRun(t, files, fake)

	state, started, err := svc.Start(id)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !started {
		t.Fatalf("expected started=true")
	}
	if state.Status != types.AnalysisStatusStarting {
		t.Fatalf("seed status = %q", state.Status)
	}

	final := waitForStatus(t, store, id, types.AnalysisStatusCompleted)
	if final.Progress != 100 {
		t.Fatalf("final progress = %d", final.Progress)
	}
	if final.Message != "Analysis completed successfully" {
		t.Fatalf("final message = %q", final.Message)
	}
	if len(final.Results) != 3 {
		t.Fatalf("results = %d", len(final.Results))
	}
	if final.Results[0].Score != 100 || final.Results[1].Score != 50 || final.Results[2].Score != 0 {
		t.Fatalf("scores = %v %v %v", final.Results[0].Score, final.Results[1].Score, final.Results[2].Score)
	}
	// Zero-scoring files are excluded from the mean.
	if final.OverallScore != 75 {
		t.Fatalf("overall score = %v, want 75", final.OverallScore)
	}
	wantContent := strings.Repeat("a", 1000) + "\n\n" + strings.Repeat("b", 500)
	if final.AllContent != wantContent {
		t.Fatalf("all content length = %d, want %d", len(final.AllContent), len(wantContent))
	}
}

func TestAnalysis_FileFailureDoesNotAbortRun(t *testing.T) {
	files := []types.UploadedFile{
		{Filename: "bad.pdf", FileType: types.FileTypeDocument},
		{Filename: "good.txt", FileType: types.FileTypeDocument},
	}
	fake := &fakeExtractor{outputs: map[string]fakeOutput{
		"bad.pdf":  {err: errors.New("boom")},
		"good.txt": {content: strings.Repeat("x", 1000)},
	}}
	store, svc, id := newTestRun(t, files, fake)

	if _, _, err := svc.Start(id); err != nil {
		t.Fatalf("Start: %v", err)
	}
	final := waitForStatus(t, store, id, types.AnalysisStatusCompleted)

	if final.Results[0].Status != types.ScoreStatusError || final.Results[0].Error != "boom" {
		t.Fatalf("failed file result = %+v", final.Results[0])
	}
	if final.Results[0].Score != 0 {
		t.Fatalf("failed file score = %v", final.Results[0].Score)
	}
	if final.Results[1].Score != 100 {
		t.Fatalf("good file score = %v", final.Results[1].Score)
	}
	if final.OverallScore != 100 {
		t.Fatalf("overall score = %v, want 100", final.OverallScore)
	}
	if final.AllContent != strings.Repeat("x", 1000) {
		t.Fatalf("all content should skip the failed file")
	}
}

func TestAnalysis_StartWhileProcessingIsNoOp(t *testing.T) {
	files := []types.UploadedFile{{Filename: "slow.txt", FileType: types.FileTypeDocument}}
	fake := &fakeExtractor{
		outputs: map[string]fakeOutput{"slow.txt": {content: "hello world content"}},
		block:   make(chan struct{}),
	}
	store, svc, id := newTestRun(t, files, fake)

	if _, started, err := svc.Start(id); err != nil || !started {
		t.Fatalf("first Start: started=%v err=%v", started, err)
	}
	waitForStatus(t, store, id, types.AnalysisStatusProcessing)

	state, started, err := svc.Start(id)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if started {
		t.Fatalf("expected second Start to be a no-op")
	}
	if state.Status != types.AnalysisStatusProcessing {
		t.Fatalf("second Start state = %q", state.Status)
	}

	close(fake.block)
	waitForStatus(t, store, id, types.AnalysisStatusCompleted)

	if fake.callCount() != 1 {
		t.Fatalf("extractor called %d times, want 1", fake.callCount())
	}
}

func TestAnalysis_RunFaultResetsProgress(t *testing.T) {
	files := []types.UploadedFile{{Filename: "boom.txt", FileType: types.FileTypeDocument}}
	fake := &fakeExtractor{outputs: map[string]fakeOutput{
		"boom.txt": {panics: "extractor exploded"},
	}}
	store, svc, id := newTestRun(t, files, fake)

	if _, _, err := svc.Start(id); err != nil {
		t.Fatalf("Start: %v", err)
	}
	final := waitForStatus(t, store, id, types.AnalysisStatusError)

	// A fault outside the per-file boundary aborts the run: terminal error
	// state with progress back at 0, unlike contained per-file failures
	// which still finish at 100.
	if final.Progress != 0 {
		t.Fatalf("fault progress = %d, want 0", final.Progress)
	}
	if final.Message != "Analysis failed: extractor exploded" {
		t.Fatalf("fault message = %q", final.Message)
	}
	if final.Error != "extractor exploded" {
		t.Fatalf("fault detail = %q", final.Error)
	}
}

func TestAnalysis_UnknownSession(t *testing.T) {
	fake := &fakeExtractor{outputs: map[string]fakeOutput{}}
	store := NewSessionStore(testLogger())
	svc := NewAnalysisService(testLogger(), store, fake, nil, t.TempDir())

	if _, _, err := svc.Start("does-not-exist"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
