// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

// MockProfileStore is an in-memory profiles.Service
type MockProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]profiles.UserProfile

	// Error injection
	CreateError error
	GetError    error
	CloseError  error

	Closed bool
}

// NewMockProfileStore creates a new mock profile store
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{
		profiles: make(map[string]profiles.UserProfile),
	}
}

// AddProfile adds a profile to the mock store
func (m *MockProfileStore) AddProfile(p profiles.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// CreateUserProfile stores a copy of the profile
func (m *MockProfileStore) CreateUserProfile(ctx context.Context, p *profiles.UserProfile) (*profiles.UserProfile, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; ok {
		return nil, fmt.Errorf("profile %s already exists", p.ID)
	}
	m.profiles[p.ID] = *p
	stored := *p
	return &stored, nil
}

// GetUserProfile returns profiles.ErrNotFound for unknown ids
func (m *MockProfileStore) GetUserProfile(ctx context.Context, id string) (*profiles.UserProfile, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return &p, nil
}

// Count returns the number of stored profiles
func (m *MockProfileStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

// Close marks the store closed
func (m *MockProfileStore) Close() error {
	m.Closed = true
	return m.CloseError
}
