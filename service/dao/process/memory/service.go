package memory

import (
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/dao/process"
	"github.com/viant/flowbridge/service/dao/store"
)

var _ dao.Service[string, execution.ProcessInstance] = (*store.Memory[execution.ProcessInstance])(nil)

// New creates an in-memory process instance store.
func New() *store.Memory[execution.ProcessInstance] {
	return store.NewMemory[execution.ProcessInstance](process.Key, (*execution.ProcessInstance).Clone, process.Fields)
}
