package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"apigw-agent-bridge/internal/config"
)

// staleAfter is how long a warm container may sit idle before IsHealthy
// reports it stale
const staleAfter = 5 * time.Minute

// Manager keeps one container alive across warm Lambda invocations
type Manager struct {
	mu        sync.RWMutex
	container *Container
	config    *config.Config
	lastUsed  time.Time
	loadCfg   func() (*config.Config, error)
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the process-wide manager
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager(config.GetOptimizedConfig)
	})
	return globalManager
}

// NewManager creates a manager that loads its configuration with loadCfg
// when used before Initialize.
func NewManager(loadCfg func() (*config.Config, error)) *Manager {
	return &Manager{loadCfg: loadCfg}
}

// Initialize builds the container from cfg. A failed initialization leaves
// the manager empty so a later call can retry.
func (m *Manager) Initialize(cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initLocked(cfg)
}

func (m *Manager) initLocked(cfg *config.Config) error {
	if m.container != nil {
		return nil
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}

	m.config = cfg
	m.container = container
	m.lastUsed = time.Now()
	return nil
}

// GetContainer returns the container, initializing it if necessary
func (m *Manager) GetContainer(ctx context.Context) (*Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	container := m.container
	m.mu.RUnlock()
	if container != nil {
		m.touch()
		return container, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.config
	if cfg == nil {
		if m.loadCfg == nil {
			return nil, errors.New("manager has no configuration")
		}
		loaded, err := m.loadCfg()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := m.initLocked(cfg); err != nil {
		return nil, err
	}
	return m.container, nil
}

// Handle is the Lambda entry point: it dispatches payload through the
// managed container.
func (m *Manager) Handle(ctx context.Context, payload map[string]any) (map[string]any, error) {
	container, err := m.GetContainer(ctx)
	if err != nil {
		return nil, err
	}
	return container.Dispatcher.Handle(ctx, payload)
}

// IsHealthy reports whether a container is loaded and was used recently
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.container == nil {
		return false
	}
	return time.Since(m.lastUsed) < staleAfter
}

// Reset drops the container; the next use rebuilds it
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.container = nil
}

func (m *Manager) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUsed = time.Now()
}
