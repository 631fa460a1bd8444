package processor

// Job is an async continuation of an execution.
type Job struct {
	ProcessInstanceID string `json:"processInstanceId"`
	ExecutionID       string `json:"executionId"`
	ActivityID        string `json:"activityId"`
}
