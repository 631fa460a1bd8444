package memory

import (
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao/store"
	"github.com/viant/flowbridge/service/dao/task"
)

// New creates an in-memory task store.
func New() *store.Memory[execution.Task] {
	return store.NewMemory[execution.Task](task.Key, (*execution.Task).Clone, task.Fields)
}
