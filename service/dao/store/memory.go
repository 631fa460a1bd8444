package store

import (
	"context"
	"sync"

	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/dao/criteria"
)

// Memory is a generic in-memory implementation of dao.Service. Entities are
// cloned on the way in and out so callers never share state with the store.
type Memory[T any] struct {
	mu          sync.RWMutex
	records     map[string]*T
	keySelector func(*T) string
	clone       func(*T) *T
	fields      criteria.Fields[T]
}

var _ dao.Service[string, struct{}] = (*Memory[struct{}])(nil)

// NewMemory creates a memory store. clone and fields may be nil.
func NewMemory[T any](keySelector func(*T) string, clone func(*T) *T, fields criteria.Fields[T]) *Memory[T] {
	if clone == nil {
		clone = func(t *T) *T { return t }
	}
	return &Memory[T]{
		records:     make(map[string]*T),
		keySelector: keySelector,
		clone:       clone,
		fields:      fields,
	}
}

// Save stores or overwrites a record.
func (s *Memory[T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if key == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key.
func (s *Memory[T]) Load(_ context.Context, key string) (*T, error) {
	if key == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.clone(v), nil
}

// Delete removes a record.
func (s *Memory[T]) Delete(_ context.Context, key string) error {
	if key == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns all records matching parameters.
func (s *Memory[T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if len(parameters) > 0 && (s.fields == nil || !criteria.Match(s.fields(v), parameters)) {
			continue
		}
		out = append(out, s.clone(v))
	}
	return out, nil
}
