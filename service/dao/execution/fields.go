// Package execution holds the execution store criteria.
package execution

import (
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
)

func Key(e *execution.Execution) string { return e.ID }

func Fields(e *execution.Execution) map[string]string {
	return map[string]string{
		dao.ParamID:                e.ID,
		dao.ParamState:             string(e.State),
		dao.ParamProcessInstanceID: e.ProcessInstanceID,
		dao.ParamActivityID:        e.ActivityID,
	}
}
