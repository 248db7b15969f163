package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a mutex-guarded map. A janitor goroutine
// evicts entries idle longer than the TTL so abandoned dialogs do not
// accumulate for the lifetime of the process.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore creates a store evicting sessions idle for longer than
// ttl, sweeping every sweepInterval. Non-positive values fall back to a
// 30 minute TTL and a 1 minute sweep.
func NewMemoryStore(ttl, sweepInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	s := &MemoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor(sweepInterval)
	return s
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || time.Since(sess.UpdatedAt) > s.ttl {
		sess = New()
		s.sessions[userID] = sess
	}
	return sess, nil
}

func (s *MemoryStore) Put(_ context.Context, userID int64, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now()
	s.sessions[userID] = sess
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Len reports the number of live sessions. Used by metrics and tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
