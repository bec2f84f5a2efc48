// README: Session registry keyed by uuid.
package session

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"tripmap/internal/modules/selection"
)

type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(deps Deps) (*Manager, error) {
	if deps.Static == nil {
		return nil, eris.New("session: static dataset provider is required")
	}
	deps.Policy = deps.Policy.WithDefaults()
	return &Manager{deps: deps, sessions: make(map[string]*Session)}, nil
}

// Create opens a session with the default bundled dataset loaded.
func (m *Manager) Create(ctx context.Context) (*Session, []selection.Event, error) {
	s := newSession(m.deps)
	events, err := s.LoadStatic(ctx, "")
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	zap.L().Info("session created", zap.String("session", s.ID))
	return s, events, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "session %q", id)
	}
	return s, nil
}

// Delete tears the session down; a generation still running for it is discarded.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return eris.Wrapf(ErrNotFound, "session %q", id)
	}
	s.Reset(ctx)
	zap.L().Info("session deleted", zap.String("session", id))
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
