package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/codepad/internal/language"
)

// ErrNotFound is returned for unknown, expired or foreign sessions.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// StoreConfig holds configuration for a Store.
type StoreConfig struct {
	TTL             time.Duration
	DefaultLanguage language.Tag
	Logger          *slog.Logger
	Now             func() time.Time
}

// Store keeps the sessions of all open pages in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl    time.Duration
	lang   language.Tag
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates an empty Store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = language.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      cfg.TTL,
		lang:     cfg.DefaultLanguage,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// Create starts a fresh session owned by the given client.
func (st *Store) Create(owner string) *Session {
	s := New(uuid.NewString(),
		WithOwner(owner),
		WithLanguage(st.lang),
		WithClock(st.now),
	)

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()

	st.logger.Debug("session created", "session", s.ID())
	return s
}

// Get returns the session with the given id if it belongs to owner.
func (st *Store) Get(id, owner string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || s.Owner() != owner {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete forgets a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.logger.Debug("expired sessions swept", "removed", removed, "remaining", len(st.sessions))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st.Sweep()
		}
	}
}
