package application

import (
	"sync"

	"cryptorate-service/internal/domain"
)

// ConfigLatch records the first configuration failure and keeps it for the
// lifetime of the process.
type ConfigLatch struct {
	mu    sync.RWMutex
	state domain.ConfigState
}

func NewConfigLatch() *ConfigLatch {
	return &ConfigLatch{state: domain.Ready{}}
}

// Fail latches msg unless a failure is already recorded. It reports whether
// this call changed the state.
func (l *ConfigLatch) Fail(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.state.(domain.ConfigurationFailed); ok {
		return false
	}
	l.state = domain.ConfigurationFailed{Message: msg}
	return true
}

func (l *ConfigLatch) State() domain.ConfigState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Err returns nil while Ready and a *ConfigurationError once failed.
func (l *ConfigLatch) Err() error {
	switch s := l.State().(type) {
	case domain.ConfigurationFailed:
		return &ConfigurationError{Message: s.Message}
	default:
		return nil
	}
}
