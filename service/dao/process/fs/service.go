package fs

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao/process"
	"github.com/viant/flowbridge/service/dao/store"
)

// New creates a process instance store keeping one document per instance
// under baseURL/process.
func New(fs afs.Service, baseURL string, logger *slog.Logger) (*store.FS[execution.ProcessInstance], error) {
	return store.NewFS[execution.ProcessInstance](fs, url.Join(baseURL, "process"), process.Key, process.Fields, logger)
}
