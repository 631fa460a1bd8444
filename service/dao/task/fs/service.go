package fs

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao/store"
	"github.com/viant/flowbridge/service/dao/task"
)

// New creates a task store under baseURL/task.
func New(fs afs.Service, baseURL string, logger *slog.Logger) (*store.FS[execution.Task], error) {
	return store.NewFS[execution.Task](fs, url.Join(baseURL, "task"), task.Key, task.Fields, logger)
}
