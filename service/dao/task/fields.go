// Package task holds the user task store criteria.
package task

import (
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
)

// StateOpen and StateCompleted are the values of the State filter.
const (
	StateOpen      = "open"
	StateCompleted = "completed"
)

func Key(t *execution.Task) string { return t.ID }

func Fields(t *execution.Task) map[string]string {
	state := StateOpen
	if !t.IsOpen() {
		state = StateCompleted
	}
	return map[string]string{
		dao.ParamID:                t.ID,
		dao.ParamState:             state,
		dao.ParamProcessInstanceID: t.ProcessInstanceID,
		dao.ParamDefinitionKey:     t.DefinitionKey,
		dao.ParamTaskDefinitionKey: t.TaskDefinitionKey,
		dao.ParamAssignee:          t.Assignee,
		dao.ParamExecutionID:       t.ExecutionID,
	}
}
