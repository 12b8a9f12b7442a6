package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wildfunctions/terncalc/pkg/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

// session is one calculator behind its own lock. A Calculator is not safe
// for concurrent use, so every access goes through mu.
type session struct {
	id   uuid.UUID
	mu   sync.Mutex
	calc *engine.Calculator
	used time.Time
}

// store holds live sessions, capped at max and evicted after ttl idle.
type store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	max      int
	ttl      time.Duration
	now      func() time.Time
}

func newStore(max int, ttl time.Duration) *store {
	return &store{
		sessions: make(map[uuid.UUID]*session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *store) create(calc *engine.Calculator) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return nil, ErrSessionLimit
	}
	s := &session{id: uuid.New(), calc: calc, used: st.now()}
	st.sessions[s.id] = s
	sessionsActive.Set(float64(len(st.sessions)))
	return s, nil
}

// get returns the session and marks it used.
func (st *store) get(id uuid.UUID) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.used = st.now()
	return s, nil
}

func (st *store) remove(id uuid.UUID) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	sessionsActive.Set(float64(len(st.sessions)))
	st.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

// evict drops sessions idle for longer than ttl and returns how many.
func (st *store) evict() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var stale []*session
	for id, s := range st.sessions {
		if s.used.Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	sessionsActive.Set(float64(len(st.sessions)))
	st.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	sessionsEvicted.Add(float64(len(stale)))
	return len(stale)
}

func (st *store) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *store) closeAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[uuid.UUID]*session)
	sessionsActive.Set(0)
	st.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}

// closed reports whether the calculator has been released. Callers hold mu.
func (s *session) closed() bool {
	return s.calc.State() == nil
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.calc.Close()
}
