package event

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/flowbridge/service/messaging/fs"
	"github.com/viant/flowbridge/service/messaging/memory"
)

type Option func(s *Service)

// WithNewFsQueueConfig sets the per-queue file system configuration
func WithNewFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig sets the per-queue memory configuration
func WithNewMemoryQueueConfig(newQueue func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newQueue
	}
}

// WithFS sets the storage service used by fs queues
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
