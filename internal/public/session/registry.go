// Package session keeps browse sessions in memory. Each session owns one controller
// and one mounted map surface; nothing is persisted.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/mapview"
)

// ErrSessionNotFound is returned for ids that were never issued or have expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the per-tab browse state.
type Session struct {
	ID         string
	Controller *application.Controller
	Map        *mapview.Surface
	CreatedAt  time.Time
	LastSeenAt time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
	closed  bool
}

// Registry issues and tracks sessions.
type Registry struct {
	catalog *application.Catalog
	ttl     time.Duration
	sweep   time.Duration
	logger  *zap.SugaredLogger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// Options configures a Registry. Zero values fall back to defaults.
type Options struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Logger        *zap.SugaredLogger
	Now           func() time.Time
}

// NewRegistry returns an empty registry over catalog.
func NewRegistry(catalog *application.Catalog, opts Options) *Registry {
	r := &Registry{
		catalog:  catalog,
		ttl:      opts.TTL,
		sweep:    opts.SweepInterval,
		logger:   opts.Logger,
		now:      opts.Now,
		sessions: make(map[string]*entry),
	}
	if r.ttl <= 0 {
		r.ttl = 30 * time.Minute
	}
	if r.sweep <= 0 {
		r.sweep = time.Minute
	}
	if r.logger == nil {
		r.logger = zap.NewNop().Sugar()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Create starts a new session with default filters and a mounted map.
func (r *Registry) Create() *Session {
	now := r.now()
	ctrl := application.NewController(r.catalog)
	surface := mapview.New(ctrl)
	surface.Mount()

	s := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
		Map:        surface,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = &entry{session: s}
	r.mu.Unlock()

	r.logger.Debugw("session created", "session", s.ID)
	return s
}

// Do runs fn with exclusive access to the session. Operations on one session never
// interleave, and each completes before the next one starts.
func (r *Registry) Do(id string, fn func(*Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrSessionNotFound
	}
	e.session.LastSeenAt = r.now()
	return fn(e.session)
}

// Delete unmounts the session's map and forgets it.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	r.close(e)
	r.logger.Debugw("session deleted", "session", id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Infof("expired %d idle sessions", n)
			}
		}
	}
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	candidates := make(map[string]*entry, len(r.sessions))
	for id, e := range r.sessions {
		candidates[id] = e
	}
	r.mu.Unlock()

	expired := 0
	for id, e := range candidates {
		e.mu.Lock()
		if !e.closed && e.session.LastSeenAt.Before(cutoff) {
			r.mu.Lock()
			if r.sessions[id] == e {
				delete(r.sessions, id)
			}
			r.mu.Unlock()
			e.closed = true
			e.session.Map.Unmount()
			expired++
		}
		e.mu.Unlock()
	}
	return expired
}

// Close unmounts and forgets every session.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		r.close(e)
	}
}

func (r *Registry) close(e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.session.Map.Unmount()
}
