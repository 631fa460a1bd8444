package execution

import (
	"time"

	"github.com/viant/flowbridge/internal/clock"
)

// ProcessInstance represents a running (or finished) instance of a process
// definition.
type ProcessInstance struct {
	ID            string       `json:"id"`
	DefinitionID  string       `json:"definitionId"`
	DefinitionKey string       `json:"definitionKey"`
	BusinessKey   string       `json:"businessKey,omitempty"`
	Initiator     string       `json:"initiator,omitempty"`
	State         ProcessState `json:"state"`
	Variables     Variables    `json:"variables,omitempty"`
	StartedAt     time.Time    `json:"startedAt"`
	EndedAt       *time.Time   `json:"endedAt,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// NewProcessInstance creates an active instance holding a copy of vars.
func NewProcessInstance(id, definitionID, definitionKey, businessKey string, vars map[string]interface{}) *ProcessInstance {
	return &ProcessInstance{
		ID:            id,
		DefinitionID:  definitionID,
		DefinitionKey: definitionKey,
		BusinessKey:   businessKey,
		State:         ProcessStateActive,
		Variables:     NewVariables(vars),
		StartedAt:     clock.Now(),
	}
}

// Complete marks the instance as completed.
func (p *ProcessInstance) Complete() {
	now := clock.Now()
	p.EndedAt = &now
	p.State = ProcessStateCompleted
}

// Fail marks the instance as failed.
func (p *ProcessInstance) Fail(err error) {
	now := clock.Now()
	p.EndedAt = &now
	if err != nil {
		p.Error = err.Error()
	}
	p.State = ProcessStateFailed
}

// Clone returns a copy safe to mutate independently of the original.
func (p *ProcessInstance) Clone() *ProcessInstance {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Variables = p.Variables.Clone()
	if p.EndedAt != nil {
		endedAt := *p.EndedAt
		clone.EndedAt = &endedAt
	}
	return &clone
}
