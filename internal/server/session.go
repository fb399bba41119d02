package server

import (
	"errors"
	"sync"

	"github.com/ragloop/selfrag/internal/graph"
)

// ErrNoSession means no document has been indexed yet.
var ErrNoSession = errors.New("no document indexed")

// Session is the state one upload produces: the workflow wired to the fresh
// index, and how many chunks went in.
type Session struct {
	Workflow   *graph.Workflow
	ChunkCount int
}

// SessionManager guards the active session with a single-writer lock. Chat
// requests hold the read lock for their whole run, so an index rebuild can
// never race an in-flight retrieval; uploads build the new index and swap the
// session under the write lock. Generation increments on every swap and keys
// the answer cache, so stale answers die with the index they came from.
type SessionManager struct {
	mu         sync.RWMutex
	session    *Session
	generation uint64
}

func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// Swap rebuilds the session under the write lock. The build closure performs
// the index replacement itself so no reader can observe a half-built index.
func (m *SessionManager) Swap(build func() (*Session, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := build()
	if err != nil {
		return err
	}
	m.session = s
	m.generation++
	return nil
}

// Use runs fn with the active session under the read lock. Returns
// ErrNoSession before the first successful upload.
func (m *SessionManager) Use(fn func(s *Session, generation uint64) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return ErrNoSession
	}
	return fn(m.session, m.generation)
}
