package event

import (
	"time"

	"github.com/viant/flowbridge/internal/clock"
)

// Type names a lifecycle transition.
type Type string

const (
	TypeProcessStarted    Type = "processStarted"
	TypeProcessCompleted  Type = "processCompleted"
	TypeProcessFailed     Type = "processFailed"
	TypeActivityStarted   Type = "activityStarted"
	TypeActivityCompleted Type = "activityCompleted"
	TypeTaskCreated       Type = "taskCreated"
	TypeTaskCompleted     Type = "taskCompleted"
)

// Context locates an event within a process instance.
type Context struct {
	Type              Type   `json:"type"`
	ProcessInstanceID string `json:"processInstanceId"`
	DefinitionKey     string `json:"definitionKey,omitempty"`
	ExecutionID       string `json:"executionId,omitempty"`
	ActivityID        string `json:"activityId,omitempty"`
	TaskID            string `json:"taskId,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
