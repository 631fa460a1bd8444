package processor

import "errors"

var (
	ErrUnknownDelegate = errors.New("unknown delegate")
	ErrNotWaiting      = errors.New("execution is not waiting")
	ErrTaskCompleted   = errors.New("task already completed")
	ErrProcessFinished = errors.New("process instance is finished")
)
