package definition

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

type Option func(*Service)

// WithFS sets the storage service used by Load.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithExtension sets the default file extension appended to extension-less URLs.
func WithExtension(ext string) Option {
	return func(s *Service) {
		s.ext = ext
	}
}

// WithFSOptions sets storage options, for example an *embed.FS.
func WithFSOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.options = options
	}
}
