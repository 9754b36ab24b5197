package store

import (
	"context"
	"fmt"
	"sync"

	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	producers map[id.Aadhar]*models.Producer
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{producers: make(map[id.Aadhar]*models.Producer)}
}

func (s *InMemoryStore) Save(_ context.Context, p *models.Producer) error {
	if p == nil {
		return fmt.Errorf("producer is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.producers[p.Aadhar] = clone(p)
	return nil
}

func (s *InMemoryStore) FindByAadhar(_ context.Context, aadhar id.Aadhar) (*models.Producer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.producers[aadhar]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Producer, error) {
	s.mu.RLock()
	out := make([]*models.Producer, 0, len(s.producers))
	for _, p := range s.producers {
		out = append(out, clone(p))
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}
