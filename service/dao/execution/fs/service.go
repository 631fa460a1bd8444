package fs

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/flowbridge/runtime/execution"
	dexecution "github.com/viant/flowbridge/service/dao/execution"
	"github.com/viant/flowbridge/service/dao/store"
)

// New creates an execution store under baseURL/execution.
func New(fs afs.Service, baseURL string, logger *slog.Logger) (*store.FS[execution.Execution], error) {
	return store.NewFS[execution.Execution](fs, url.Join(baseURL, "execution"), dexecution.Key, dexecution.Fields, logger)
}
