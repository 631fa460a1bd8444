// Package repository keeps deployed process definitions. Every deployment of
// a key creates a new version; lookups by key resolve the latest one.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/viant/flowbridge/internal/clock"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/service/dao"
)

// Definition is a deployed, versioned process.
type Definition struct {
	ID         string        `json:"id"`
	Key        string        `json:"key"`
	Name       string        `json:"name,omitempty"`
	Version    int           `json:"version"`
	Process    *bpmn.Process `json:"-"`
	DeployedAt time.Time     `json:"deployedAt"`
}

type Service struct {
	mux   sync.RWMutex
	byID  map[string]*Definition
	byKey map[string][]*Definition
}

// Deploy validates and registers a process under its id as key.
func (s *Service) Deploy(process *bpmn.Process) (*Definition, error) {
	if process == nil {
		return nil, dao.ErrNilEntity
	}
	if issues := process.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid process %s: %w", process.ID, errors.Join(issues...))
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	version := len(s.byKey[process.ID]) + 1
	process.Version = version
	definition := &Definition{
		ID:         fmt.Sprintf("%s:%d", process.ID, version),
		Key:        process.ID,
		Name:       process.Name,
		Version:    version,
		Process:    process,
		DeployedAt: clock.Now(),
	}
	s.byID[definition.ID] = definition
	s.byKey[definition.Key] = append(s.byKey[definition.Key], definition)
	return definition, nil
}

// Latest returns the most recent version deployed under key.
func (s *Service) Latest(key string) (*Definition, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	versions := s.byKey[key]
	if len(versions) == 0 {
		return nil, fmt.Errorf("process definition %s: %w", key, dao.ErrNotFound)
	}
	return versions[len(versions)-1], nil
}

// Definition returns a definition by id.
func (s *Service) Definition(id string) (*Definition, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	definition, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("process definition %s: %w", id, dao.ErrNotFound)
	}
	return definition, nil
}

// Definitions returns the latest version of every key, sorted by key.
func (s *Service) Definitions() []*Definition {
	s.mux.RLock()
	defer s.mux.RUnlock()
	result := make([]*Definition, 0, len(s.byKey))
	for _, versions := range s.byKey {
		result = append(result, versions[len(versions)-1])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

func New() *Service {
	return &Service{byID: map[string]*Definition{}, byKey: map[string][]*Definition{}}
}
