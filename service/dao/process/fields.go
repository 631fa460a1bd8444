// Package process holds the process instance store criteria.
package process

import (
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
)

// Key returns the store key of a process instance.
func Key(p *execution.ProcessInstance) string { return p.ID }

// Fields exposes the filterable process instance attributes.
func Fields(p *execution.ProcessInstance) map[string]string {
	return map[string]string{
		dao.ParamID:            p.ID,
		dao.ParamState:         string(p.State),
		dao.ParamDefinitionKey: p.DefinitionKey,
		dao.ParamBusinessKey:   p.BusinessKey,
	}
}
