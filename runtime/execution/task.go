package execution

import (
	"time"

	"github.com/viant/flowbridge/internal/clock"
)

// Task is a unit of human work created by a user task.
type Task struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name,omitempty"`
	TaskDefinitionKey   string     `json:"taskDefinitionKey"`
	ProcessInstanceID   string     `json:"processInstanceId"`
	ProcessDefinitionID string     `json:"processDefinitionId"`
	DefinitionKey       string     `json:"definitionKey"`
	ExecutionID         string     `json:"executionId"`
	Assignee            string     `json:"assignee,omitempty"`
	CandidateGroups     []string   `json:"candidateGroups,omitempty"`
	FormKey             string     `json:"formKey,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// NewTask creates an open task.
func NewTask(id string) *Task {
	return &Task{ID: id, CreatedAt: clock.Now()}
}

// IsOpen reports whether the task still awaits completion.
func (t *Task) IsOpen() bool {
	return t.CompletedAt == nil
}

// Complete records task completion.
func (t *Task) Complete() {
	now := clock.Now()
	t.CompletedAt = &now
}

// Clone returns a copy safe to mutate independently of the original.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if len(t.CandidateGroups) > 0 {
		clone.CandidateGroups = append([]string(nil), t.CandidateGroups...)
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
