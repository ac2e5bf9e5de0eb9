package conversation

import (
	"log"
	"sync"
	"time"

	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
)

const DefaultSessionTTL = 30 * time.Minute

// Store keeps live sessions in memory. Nothing survives a restart, and sessions
// idle for longer than the TTL are dropped when the next one is created.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	extractor Extractor
	searcher  Searcher
	recorder  txlog.Recorder
	ttl       time.Duration
	now       func() time.Time
}

// NewStore returns a store; a non-positive ttl uses DefaultSessionTTL.
func NewStore(extractor Extractor, searcher Searcher, recorder txlog.Recorder, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions:  make(map[string]*Session),
		extractor: extractor,
		searcher:  searcher,
		recorder:  recorder,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *Store) Create() *Session {
	session := NewSession(s.extractor, s.searcher, s.recorder)
	session.now = s.now
	session.touch()

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return session
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return models.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Prune drops expired sessions and reports how many went.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}

func (s *Store) pruneLocked() int {
	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[CONVERSATION] pruned %d idle sessions", removed)
	}
	return removed
}

func (s *Store) expired(session *Session) bool {
	return s.now().Sub(session.LastActive()) > s.ttl
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
