package store

import (
	"context"
	"sync"

	"pricewatch/models"
)

// Memory is an in-process ObservationStore. It is the zero-config default
// and the test double; state does not survive a restart.
type Memory struct {
	mu           sync.RWMutex
	observations map[string]models.Observation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{observations: make(map[string]models.Observation)}
}

// Get returns the stored observation, or nil when none exists.
func (m *Memory) Get(ctx context.Context, name string) (*models.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obs, ok := m.observations[name]
	if !ok {
		return nil, nil
	}
	return &obs, nil
}

// Put stores the observation, replacing any previous one.
func (m *Memory) Put(ctx context.Context, name string, obs models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observations[name] = obs
	return nil
}
