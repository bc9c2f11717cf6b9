// Package memory provides a map-backed Repository used for tests and ephemeral deployments.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"hbnb/internal/domain"
	"hbnb/internal/repository"
)

// Store keeps entities in insertion order behind a RWMutex. Values are cloned on the way in
// and out so callers never share state with the store.
type Store[T repository.Entity[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewStore[T repository.Entity[T]]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

func (s *Store[T]) Add(_ context.Context, entity T) (T, error) {
	if entity.GetID() == "" {
		entity.SetID(uuid.NewString())
	}
	id := entity.GetID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = entity.Clone()
	return entity.Clone(), nil
}

func (s *Store[T]) Get(_ context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return entity.Clone(), true, nil
}

func (s *Store[T]) GetByAttribute(_ context.Context, name string, value any) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		entity := s.items[id]
		attr, ok := entity.Attribute(name)
		if ok && attr == value {
			return entity.Clone(), true, nil
		}
	}
	var zero T
	return zero, false, nil
}

func (s *Store[T]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out, nil
}

func (s *Store[T]) Update(_ context.Context, id string, entity T) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		var zero T
		return zero, false, nil
	}
	entity.SetID(id)
	s.items[id] = entity.Clone()
	return entity.Clone(), true, nil
}

func (s *Store[T]) Delete(_ context.Context, id string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	delete(s.items, id)
	if idx := slices.Index(s.order, id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	return entity, true, nil
}

var (
	_ repository.Repository[*domain.User]    = (*Store[*domain.User])(nil)
	_ repository.Repository[*domain.Place]   = (*Store[*domain.Place])(nil)
	_ repository.Repository[*domain.Amenity] = (*Store[*domain.Amenity])(nil)
	_ repository.Repository[*domain.Review]  = (*Store[*domain.Review])(nil)
)
