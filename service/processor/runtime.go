package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/repository"
	"github.com/viant/flowbridge/tracing"
)

// StartRequest describes a new process instance.
type StartRequest struct {
	Definition  *repository.Definition
	BusinessKey string
	// Initiator is stored on the instance and in the variable named by the
	// start event's initiator attribute.
	Initiator string
	Variables map[string]interface{}
}

// StartProcess creates an instance and runs it until the first wait state.
func (s *Service) StartProcess(ctx context.Context, request *StartRequest) (instance *execution.ProcessInstance, err error) {
	if request == nil || request.Definition == nil {
		return nil, fmt.Errorf("process definition is required")
	}
	definition := request.Definition
	ctx, span := tracing.StartSpan(ctx, "processor.StartProcess "+definition.Key, tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	starts := definition.Process.StartEvents()
	if len(starts) == 0 {
		return nil, fmt.Errorf("process %s has no start event", definition.Key)
	}
	start := starts[0]
	instance = execution.NewProcessInstance(s.newID(), definition.ID, definition.Key, request.BusinessKey, request.Variables)
	instance.Initiator = request.Initiator
	if start.Initiator != "" && request.Initiator != "" {
		instance.Variables[start.Initiator] = request.Initiator
	}
	span.WithAttributes(map[string]string{"process.instance.id": instance.ID, "process.key": definition.Key})

	err = s.withInstance(ctx, instance.ID, func(op *operation) error {
		op.definition = definition
		op.instance = instance
		if err := s.processDAO.Save(ctx, instance); err != nil {
			return fmt.Errorf("failed to save process instance: %w", err)
		}
		s.logger.Info("process started", logging.ProcessID(instance.ID), logging.ProcessKey(definition.Key))
		s.publish(ctx, event.TypeProcessStarted, op, nil, nil)
		exec := execution.NewExecution(instance.ID, instance.ID, start.ID)
		if runErr := s.run(ctx, op, exec, false); runErr != nil {
			if err := s.fail(ctx, op, exec, runErr); err != nil {
				return errors.Join(runErr, err)
			}
			return runErr
		}
		return s.finish(ctx, op)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start process %s: %w", definition.Key, err)
	}
	return instance.Clone(), nil
}

// Trigger signals a waiting execution, merging variables into the process.
func (s *Service) Trigger(ctx context.Context, executionID string, variables map[string]interface{}) (err error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Trigger", tracing.KindInternal)
	span.WithAttributes(map[string]string{"execution.id": executionID})
	defer func() { tracing.EndSpan(span, err) }()

	exec, err := s.executionDAO.Load(ctx, executionID)
	if err != nil {
		return fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}
	return s.withInstance(ctx, exec.ProcessInstanceID, func(op *operation) error {
		if exec, err = s.executionDAO.Load(ctx, executionID); err != nil {
			return err
		}
		if err = s.open(ctx, op, exec.ProcessInstanceID); err != nil {
			return err
		}
		return s.signalAndFinish(ctx, op, exec, variables)
	})
}

func (s *Service) signalAndFinish(ctx context.Context, op *operation, exec *execution.Execution, variables map[string]interface{}) error {
	if err := s.signal(ctx, op, exec, variables); err != nil {
		if errors.Is(err, ErrNotWaiting) || errors.Is(err, ErrProcessFinished) {
			return err
		}
		if fErr := s.fail(ctx, op, exec, err); fErr != nil {
			return errors.Join(err, fErr)
		}
		return err
	}
	return s.finish(ctx, op)
}

// Variables returns the process variables overlaid with the execution's
// local variables.
func (s *Service) Variables(ctx context.Context, executionID string) (execution.Variables, error) {
	exec, err := s.executionDAO.Load(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}
	instance, err := s.processDAO.Load(ctx, exec.ProcessInstanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load process instance %s: %w", exec.ProcessInstanceID, err)
	}
	return execution.NewVariables(instance.Variables, exec.LocalVariables), nil
}

// SetVariables merges variables into the process of the execution.
func (s *Service) SetVariables(ctx context.Context, executionID string, variables map[string]interface{}) error {
	exec, err := s.executionDAO.Load(ctx, executionID)
	if err != nil {
		return fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}
	return s.withInstance(ctx, exec.ProcessInstanceID, func(op *operation) error {
		if err := s.open(ctx, op, exec.ProcessInstanceID); err != nil {
			return err
		}
		op.instance.Variables.Merge(variables)
		return s.processDAO.Save(ctx, op.instance)
	})
}

// Execution returns an execution by id.
func (s *Service) Execution(ctx context.Context, id string) (*execution.Execution, error) {
	return s.executionDAO.Load(ctx, id)
}

// Executions lists executions matching parameters.
func (s *Service) Executions(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Execution, error) {
	return s.executionDAO.List(ctx, parameters...)
}

// ProcessInstance returns an instance by id.
func (s *Service) ProcessInstance(ctx context.Context, id string) (*execution.ProcessInstance, error) {
	return s.processDAO.Load(ctx, id)
}

// ProcessInstances lists instances matching parameters.
func (s *Service) ProcessInstances(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.ProcessInstance, error) {
	return s.processDAO.List(ctx, parameters...)
}

// Tasks lists user tasks matching parameters.
func (s *Service) Tasks(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Task, error) {
	return s.taskDAO.List(ctx, parameters...)
}

// CompleteTask completes an open user task and continues its execution.
func (s *Service) CompleteTask(ctx context.Context, taskID string, variables map[string]interface{}) error {
	task, err := s.taskDAO.Load(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	return s.withInstance(ctx, task.ProcessInstanceID, func(op *operation) error {
		if task, err = s.taskDAO.Load(ctx, taskID); err != nil {
			return err
		}
		if !task.IsOpen() {
			return fmt.Errorf("%w: %s", ErrTaskCompleted, taskID)
		}
		exec, err := s.executionDAO.Load(ctx, task.ExecutionID)
		if err != nil {
			return err
		}
		if err = s.open(ctx, op, task.ProcessInstanceID); err != nil {
			return err
		}
		task.Complete()
		if err = s.taskDAO.Save(ctx, task); err != nil {
			return err
		}
		s.publish(ctx, event.TypeTaskCompleted, op, exec, task)
		return s.signalAndFinish(ctx, op, exec, variables)
	})
}
