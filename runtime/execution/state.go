package execution

// ProcessState represents the lifecycle state of a process instance.
type ProcessState string

const (
	ProcessStateActive    ProcessState = "active"
	ProcessStateSuspended ProcessState = "suspended"
	ProcessStateCompleted ProcessState = "completed"
	ProcessStateFailed    ProcessState = "failed"
)

// IsFinished reports whether the instance can no longer make progress.
func (s ProcessState) IsFinished() bool {
	return s == ProcessStateCompleted || s == ProcessStateFailed
}

// State represents the current state of an execution token.
type State string

const (
	// StateActive indicates the execution is moving through the agenda.
	StateActive State = "active"
	// StateWaiting indicates the execution rests in a wait state (user task,
	// receive task) until it is triggered.
	StateWaiting State = "waiting"
	// StateScheduled indicates an async continuation has been queued.
	StateScheduled State = "scheduled"
	StateEnded     State = "ended"
	StateFailed    State = "failed"
)

// IsLive reports whether the execution still contributes to the process.
func (s State) IsLive() bool {
	return s == StateActive || s == StateWaiting || s == StateScheduled
}
