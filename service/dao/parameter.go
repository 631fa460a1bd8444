package dao

// Parameter is a named List filter. Value is either a string or a []string
// of accepted values.
type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Filter names understood by the flowbridge stores.
const (
	ParamID                = "ID"
	ParamState             = "State"
	ParamProcessInstanceID = "ProcessInstanceID"
	ParamDefinitionKey     = "DefinitionKey"
	ParamBusinessKey       = "BusinessKey"
	ParamActivityID        = "ActivityID"
	ParamTaskDefinitionKey = "TaskDefinitionKey"
	ParamAssignee          = "Assignee"
	ParamExecutionID       = "ExecutionID"
)
