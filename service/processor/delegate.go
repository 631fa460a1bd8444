package processor

import (
	"context"
	"fmt"

	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/runtime/expander"
	"github.com/viant/flowbridge/service/repository"
)

// DelegateVariables is the built-in delegate type copying service task
// fields into process variables.
const DelegateVariables = "variables"

// Call describes a service task invocation.
type Call struct {
	Definition *repository.Definition
	Instance   *execution.ProcessInstance
	Execution  *execution.Execution
	Task       *bpmn.ServiceTask
}

// Variables returns the process variables overlaid with the execution's
// local variables.
func (c *Call) Variables() execution.Variables {
	return execution.NewVariables(c.Instance.Variables, c.Execution.LocalVariables)
}

// Field returns the service task field with variable references expanded.
func (c *Call) Field(name string) string {
	return expander.Text(c.Task.Field(name), c.Variables())
}

// Delegate implements a service task type. The returned variables are merged
// into the process, or stored under the task's result variable when set.
type Delegate interface {
	Execute(ctx context.Context, call *Call) (map[string]interface{}, error)
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(ctx context.Context, call *Call) (map[string]interface{}, error)

func (f DelegateFunc) Execute(ctx context.Context, call *Call) (map[string]interface{}, error) {
	return f(ctx, call)
}

func setVariables(_ context.Context, call *Call) (map[string]interface{}, error) {
	return expander.Fields(call.Task.Fields, call.Variables())
}

func (s *Service) delegate(taskType string) (Delegate, error) {
	s.delegateMux.RLock()
	defer s.delegateMux.RUnlock()
	delegate, ok := s.delegates[taskType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDelegate, taskType)
	}
	return delegate, nil
}

// RegisterDelegate binds a service task type to its implementation.
func (s *Service) RegisterDelegate(taskType string, delegate Delegate) {
	s.delegateMux.Lock()
	defer s.delegateMux.Unlock()
	s.delegates[taskType] = delegate
}
