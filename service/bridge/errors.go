package bridge

import "errors"

var (
	// ErrNoExecution is returned when no execution waits in the signalled
	// activity within the endpoint timeout.
	ErrNoExecution = errors.New("no waiting execution")
	// ErrNoProcessInstance is returned when a signal names no known instance.
	ErrNoProcessInstance = errors.New("no process instance")
	// ErrNoRoute is returned when a route service task has no consuming route.
	ErrNoRoute = errors.New("no route consumes the activity")
)
