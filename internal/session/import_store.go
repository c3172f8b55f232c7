package session

import (
	"context"
	"sync"
	"time"

	"fleetops/app"
	"fleetops/domain/core"
	"fleetops/internal"
	"fleetops/internal/errors"
)

// ImportSession holds a parsed batch awaiting operator confirmation
type ImportSession struct {
	ID        core.ImportID    `json:"id"`
	Parsed    *app.ParseResult `json:"parsed"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// ImportStore keeps preview sessions in memory until they are committed or
// expire. A session can be taken for commit exactly once.
type ImportStore struct {
	sessions map[core.ImportID]*ImportSession
	ttl      time.Duration
	now      func() time.Time
	logger   *internal.Logger
	mu       sync.RWMutex
}

// NewImportStore creates a store whose sessions live for ttl
func NewImportStore(ttl time.Duration, logger *internal.Logger) *ImportStore {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ImportStore{
		sessions: make(map[core.ImportID]*ImportSession),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Put stores a parsed batch under a fresh import ID
func (s *ImportStore) Put(parsed *app.ParseResult) *ImportSession {
	now := s.now()
	session := &ImportSession{
		ID:        core.NewImportID(),
		Parsed:    parsed,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("[ImportStore] Stored session %s (%d rows)", session.ID, len(parsed.Batch.Tasks))
	return session
}

// Get returns a live session without removing it
func (s *ImportStore) Get(id core.ImportID) (*ImportSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil, errors.NotFound("import session")
	}
	return session, nil
}

// Take removes and returns a live session. A second Take of the same ID
// fails, so a preview cannot be committed twice.
func (s *ImportStore) Take(id core.ImportID) (*ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.NotFound("import session")
	}
	delete(s.sessions, id)
	if s.expired(session) {
		return nil, errors.NotFound("import session")
	}
	return session, nil
}

// Discard drops a session if present
func (s *ImportStore) Discard(id core.ImportID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included
func (s *ImportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped
func (s *ImportStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("[ImportStore] Expired %d import sessions", removed)
	}
	return removed
}

// RunJanitor calls Cleanup every interval until ctx is done
func (s *ImportStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func (s *ImportStore) expired(session *ImportSession) bool {
	return !s.now().Before(session.ExpiresAt)
}
