package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the session store for the life of the process: it is
// created at startup, handed to whoever needs sessions, and closed on
// shutdown.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

type Option func(*Manager)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSweep starts a background goroutine deleting expired sessions.
func WithSweep(every time.Duration) Option {
	return func(m *Manager) {
		if every <= 0 {
			return
		}
		m.wg.Add(1)
		go m.sweep(every)
	}
}

func NewManager(store Store, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	m := &Manager{store: store, ttl: ttl, now: time.Now, stop: make(chan struct{})}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// New creates an anonymous session. It is only persisted once something
// is stored in it.
func (m *Manager) New() *Session {
	now := m.now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
}

// Load returns the session for sid, or a fresh one when sid is empty,
// unknown or expired. A fresh session replacing a non-empty sid reports it
// through Replaces. Principals whose token has expired are dropped and
// reported through Dropped.
func (m *Manager) Load(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return m.New(), nil
	}
	s, err := m.store.Get(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return m.replacing(sid), nil
	}
	if err != nil {
		return nil, err
	}
	now := m.now()
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		_ = m.store.Delete(ctx, sid)
		return m.replacing(sid), nil
	}
	for _, scope := range []Scope{ScopeUser, ScopeAdmin} {
		if p := s.Principal(scope); p != nil && p.Expired(now) {
			s.Clear(scope)
			s.dropped = append(s.dropped, scope)
		}
	}
	return s, nil
}

func (m *Manager) replacing(sid string) *Session {
	s := m.New()
	s.replaces = sid
	return s
}

// Rotate moves s to a fresh ID and deletes the record stored under the old
// one. Call it whenever s gains a login.
func (m *Manager) Rotate(ctx context.Context, s *Session) error {
	old := s.ID
	s.ID = uuid.NewString()
	s.dirty = true
	if old == "" {
		return nil
	}
	return m.store.Delete(ctx, old)
}

// Save persists s and slides its expiry forward.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Put(ctx, s, m.ttl); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.store.Delete(ctx, sid)
}

func (m *Manager) sweep(every time.Duration) {
	defer m.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_, _ = m.store.DeleteExpired(ctx, m.now())
			cancel()
		}
	}
}

// Close stops the sweeper and closes the store. Safe to call twice.
func (m *Manager) Close() error {
	var err error
	m.once.Do(func() {
		close(m.stop)
		m.wg.Wait()
		err = m.store.Close()
	})
	return err
}
