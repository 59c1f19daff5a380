package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

// SessionStore is the one shared mutable resource in the process: a
// lock-guarded map from session id to session state. Readers always get a
// snapshot copy, so a poll can never observe a half-written state. Writes
// against a deleted id are silent no-ops; a run whose session was cleaned up
// mid-flight just has its result discarded.
type SessionStore interface {
	Create(files []types.UploadedFile) *types.Session
	Get(id string) (types.Session, error)
	GetState(id string) (types.AnalysisState, error)
	SetState(id string, state types.AnalysisState)
	SetStatus(id string, status types.AnalysisStatus, message string)
	UpdateProgress(id string, progress int, message string)
	Delete(id string)
	Count() int
}

type sessionStore struct {
	mu       sync.RWMutex
	log      *logger.Logger
	sessions map[string]*types.Session
}

func NewSessionStore(log *logger.Logger) SessionStore {
	return &sessionStore{
		log:      log.With("service", "SessionStore"),
		sessions: make(map[string]*types.Session),
	}
}

func (s *sessionStore) Create(files []types.UploadedFile) *types.Session {
	id := uuid.New()
	sess := &types.Session{
		ID:        id,
		Files:     append([]types.UploadedFile(nil), files...),
		CreatedAt: time.Now().UTC(),
		State: types.AnalysisState{
			SessionID: id.String(),
			Status:    types.AnalysisStatusNotStarted,
			Results:   []types.FileResult{},
		},
	}

	s.mu.Lock()
	s.sessions[id.String()] = sess
	s.mu.Unlock()

	s.log.Debug("Session created", "session_id", id.String(), "files", len(files))
	snapshot := copySession(sess)
	return &snapshot
}

func (s *sessionStore) Get(id string) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *sessionStore) GetState(id string) (types.AnalysisState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return types.AnalysisState{}, ErrSessionNotFound
	}
	return copyState(&sess.State), nil
}

func (s *sessionStore) SetState(id string, state types.AnalysisState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	state.Results = append([]types.FileResult(nil), state.Results...)
	sess.State = state
}

func (s *sessionStore) SetStatus(id string, status types.AnalysisStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.State.Status = status
	sess.State.Message = message
}

func (s *sessionStore) UpdateProgress(id string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.State.Progress = progress
	sess.State.Message = message
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SessionContent returns the aggregated content of a completed analysis.
// Incomplete or empty sessions yield sentinel errors the caller can map to
// its own responses.
func SessionContent(store SessionStore, id string) (string, error) {
	state, err := store.GetState(id)
	if err != nil {
		return "", err
	}
	if state.Status != types.AnalysisStatusCompleted {
		return "", ErrAnalysisNotReady
	}
	if strings.TrimSpace(state.AllContent) == "" {
		return "", ErrNoContent
	}
	return state.AllContent, nil
}

func copySession(sess *types.Session) types.Session {
	out := *sess
	out.Files = append([]types.UploadedFile(nil), sess.Files...)
	out.State = copyState(&sess.State)
	return out
}

func copyState(st *types.AnalysisState) types.AnalysisState {
	out := *st
	out.Results = append([]types.FileResult(nil), st.Results...)
	return out
}
