// Package session keeps the dashboard widget state of each browser session
// in memory. A request reads the state, applies its own changes and writes
// it back atomically, so two tabs of one session never see a half update.
package session

import (
	"sort"
	"sync"
	"time"

	"titanicdash/domain/core"
	"titanicdash/internal"
)

// WidgetState is what the user has selected on the dashboard
type WidgetState struct {
	Class       int       `json:"class"`
	Rows        int       `json:"rows"`
	AgeMin      float64   `json:"age_min"`
	AgeMax      float64   `json:"age_max"`
	AgeRangeSet bool      `json:"age_range_set"` // false until the user picks a range
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store maps session IDs to widget state
type Store struct {
	mu       sync.Mutex
	states   map[core.SessionID]*WidgetState
	defaults WidgetState
	ttl      time.Duration
	now      func() time.Time
	logger   *internal.Logger
}

// NewStore creates a store. New sessions start from defaults; sessions idle
// for longer than ttl are dropped by CleanupExpired. A zero ttl keeps
// sessions forever.
func NewStore(defaults WidgetState, ttl time.Duration, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{
		states:   make(map[core.SessionID]*WidgetState),
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With("SessionStore"),
	}
}

// Get returns the state of a known session
func (s *Store) Get(id core.SessionID) (WidgetState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return WidgetState{}, false
	}
	return *st, true
}

// Update applies fn to the session's state, creating the session from the
// defaults if needed. When fn fails the stored state is left untouched.
func (s *Store) Update(id core.SessionID, fn func(*WidgetState) error) (WidgetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.states[id]
	if !ok {
		fresh := s.defaults
		current = &fresh
		s.logger.Debug("new session %s", id)
	}

	next := *current
	if fn != nil {
		if err := fn(&next); err != nil {
			return *current, err
		}
	}
	next.UpdatedAt = s.now()
	s.states[id] = &next
	return next, nil
}

// Delete forgets a session
func (s *Store) Delete(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// IDs returns the live session IDs, sorted
func (s *Store) IDs() []core.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]core.SessionID, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CleanupExpired drops sessions idle for longer than the ttl and returns how
// many were removed.
func (s *Store) CleanupExpired() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, st := range s.states {
		if st.UpdatedAt.Before(cutoff) {
			delete(s.states, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired %d idle sessions", removed)
	}
	return removed
}

// RunCleanup calls CleanupExpired every interval until stop is closed.
func (s *Store) RunCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.CleanupExpired()
		case <-stop:
			return
		}
	}
}
