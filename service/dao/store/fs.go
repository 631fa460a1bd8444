package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/dao/criteria"
)

// FS is a generic afs backed implementation of dao.Service storing one JSON
// document per entity under basePath.
type FS[T any] struct {
	basePath    string
	fs          afs.Service
	keySelector func(*T) string
	fields      criteria.Fields[T]
	logger      *slog.Logger
	mu          sync.RWMutex
}

var _ dao.Service[string, struct{}] = (*FS[struct{}])(nil)

// NewFS creates a filesystem store rooted at basePath. Any afs supported
// URL works, including mem:// for tests.
func NewFS[T any](fs afs.Service, basePath string, keySelector func(*T) string, fields criteria.Fields[T], logger *slog.Logger) (*FS[T], error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, basePath); !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	if url.Scheme(basePath, "") == "" {
		basePath = url.Normalize(basePath, file.Scheme)
	}
	return &FS[T]{basePath: basePath, fs: fs, keySelector: keySelector, fields: fields, logger: logger}, nil
}

// Save persists an entity.
func (s *FS[T]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if key == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.entityPath(key)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves an entity.
func (s *FS[T]) Load(ctx context.Context, key string) (*T, error) {
	if key == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.entityPath(key)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", filePath, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", key, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	var ret T
	if err = json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filePath, err)
	}
	return &ret, nil
}

// Delete removes an entity.
func (s *FS[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.entityPath(key)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", filePath, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", key, dao.ErrNotFound)
	}
	return s.fs.Delete(ctx, filePath)
}

// List returns all entities matching parameters. Unreadable documents are
// logged and skipped.
func (s *FS[T]) List(ctx context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.basePath, err)
	}
	var ret []*T
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable document", slog.String("url", object.URL()), slog.String("error", err.Error()))
			continue
		}
		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			s.logger.Warn("skipping invalid document", slog.String("url", object.URL()), slog.String("error", err.Error()))
			continue
		}
		if len(parameters) > 0 && (s.fields == nil || !criteria.Match(s.fields(&entity), parameters)) {
			continue
		}
		ret = append(ret, &entity)
	}
	return ret, nil
}

func (s *FS[T]) entityPath(key string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.json", path.Base(key)))
}
