package skill

import (
	"context"
	"sync"

	"github.com/hupe1980/taskmesh/core"
)

// Store persists skill definitions across sessions. Implementations must be
// safe for concurrent use.
type Store interface {
	// Load returns all persisted skills.
	Load(ctx context.Context) ([]core.Skill, error)

	// Save writes or overwrites the skill identified by its name.
	Save(ctx context.Context, s core.Skill) error
}

// InMemoryStore is a Store backed by a process-local map, primarily for
// tests and single-session use.
type InMemoryStore struct {
	mu     sync.RWMutex
	skills map[string]core.Skill
}

// NewInMemoryStore creates an empty in-memory skill store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		skills: make(map[string]core.Skill),
	}
}

// Load implements Store.
func (s *InMemoryStore) Load(_ context.Context) ([]core.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, sk)
	}
	return out, nil
}

// Save implements Store.
func (s *InMemoryStore) Save(_ context.Context, sk core.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skills[sk.Name] = sk
	return nil
}
