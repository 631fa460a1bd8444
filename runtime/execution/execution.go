package execution

import (
	"time"

	"github.com/viant/flowbridge/internal/clock"
)

// Execution is a token moving through a process instance. The root
// execution of an instance shares the instance id.
type Execution struct {
	ID                string     `json:"id"`
	ProcessInstanceID string     `json:"processInstanceId"`
	ParentID          string     `json:"parentId,omitempty"`
	ActivityID        string     `json:"activityId"`
	State             State      `json:"state"`
	LocalVariables    Variables  `json:"localVariables,omitempty"`
	Attempts          int        `json:"attempts,omitempty"`
	Error             string     `json:"error,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
}

// NewExecution creates an active execution positioned at activityID.
func NewExecution(id, processInstanceID, activityID string) *Execution {
	now := clock.Now()
	return &Execution{
		ID:                id,
		ProcessInstanceID: processInstanceID,
		ActivityID:        activityID,
		State:             StateActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// MoveTo positions the execution at another activity and activates it.
func (e *Execution) MoveTo(activityID string) {
	e.ActivityID = activityID
	e.State = StateActive
	e.UpdatedAt = clock.Now()
}

// Wait parks the execution in a wait state.
func (e *Execution) Wait() {
	e.State = StateWaiting
	e.UpdatedAt = clock.Now()
}

// Schedule marks the execution as queued for async continuation.
func (e *Execution) Schedule() {
	e.State = StateScheduled
	e.UpdatedAt = clock.Now()
}

// End terminates the execution.
func (e *Execution) End() {
	now := clock.Now()
	e.EndedAt = &now
	e.UpdatedAt = now
	e.State = StateEnded
}

// Fail terminates the execution with an error.
func (e *Execution) Fail(err error) {
	e.End()
	e.State = StateFailed
	if err != nil {
		e.Error = err.Error()
	}
}

// IsWaitingAt reports whether the execution rests in activityID.
func (e *Execution) IsWaitingAt(activityID string) bool {
	return e.State == StateWaiting && e.ActivityID == activityID
}

// Clone returns a copy safe to mutate independently of the original.
func (e *Execution) Clone() *Execution {
	if e == nil {
		return nil
	}
	clone := *e
	if e.LocalVariables != nil {
		clone.LocalVariables = e.LocalVariables.Clone()
	}
	if e.EndedAt != nil {
		endedAt := *e.EndedAt
		clone.EndedAt = &endedAt
	}
	return &clone
}
