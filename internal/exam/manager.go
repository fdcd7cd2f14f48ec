package exam

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mind-engage/archquiz/internal/bank"
)

var ErrNoSession = errors.New("no exam session")

// Manager keeps at most one session per client. Opening again throws the
// previous session away; nothing carries over.
type Manager struct {
	Pool    func() []bank.Question
	Size    int
	IdleTTL time.Duration    // 0 keeps sessions until closed
	NewRand func() Rand      // nil uses the process-wide source
	Now     func() time.Time // nil uses time.Now
	Logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

// entry guards one client's session. The registry lock only covers the map;
// work on a session, including its record write, holds mu alone.
type entry struct {
	mu      sync.Mutex
	s       *Session
	touched time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Open starts a fresh session for client and returns its first view.
func (m *Manager) Open(client string) View {
	var pool []bank.Question
	if m.Pool != nil {
		pool = m.Pool()
	}
	var rng Rand
	if m.NewRand != nil {
		rng = m.NewRand()
	}
	size := m.Size
	if size <= 0 {
		size = DefaultSize
	}
	s := Start(pool, size, rng, WithClock(m.now), WithLogger(m.logger()))

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = map[string]*entry{}
	}
	m.pruneLocked()
	if old, ok := m.sessions[client]; ok {
		m.logger().Debug("exam session replaced", "client", client, "old", old.s.ID(), "new", s.ID())
	}
	m.sessions[client] = &entry{s: s, touched: m.now()}
	m.logger().Info("exam session opened", "client", client, "session", s.ID(), "questions", s.Len(), "pool", len(pool))
	return s.View()
}

// With runs fn on the client's session. Calls for the same client run one
// at a time; other clients are not held up.
func (m *Manager) With(client string, fn func(s *Session) error) error {
	m.mu.Lock()
	e, ok := m.sessions[client]
	if !ok || m.expiredLocked(e) {
		delete(m.sessions, client)
		m.mu.Unlock()
		return ErrNoSession
	}
	e.touched = m.now()
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Close discards the client's session. It reports whether one existed.
func (m *Manager) Close(client string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[client]
	delete(m.sessions, client)
	return ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) expiredLocked(e *entry) bool {
	return m.IdleTTL > 0 && m.now().Sub(e.touched) >= m.IdleTTL
}

func (m *Manager) pruneLocked() {
	if m.IdleTTL <= 0 {
		return
	}
	for k, e := range m.sessions {
		if m.expiredLocked(e) {
			delete(m.sessions, k)
		}
	}
}
