package memory

import (
	"github.com/viant/flowbridge/runtime/execution"
	dexecution "github.com/viant/flowbridge/service/dao/execution"
	"github.com/viant/flowbridge/service/dao/store"
)

// New creates an in-memory execution store.
func New() *store.Memory[execution.Execution] {
	return store.NewMemory[execution.Execution](dexecution.Key, (*execution.Execution).Clone, dexecution.Fields)
}
