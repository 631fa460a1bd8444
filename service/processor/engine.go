package processor

import (
	"context"
	"fmt"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/runtime/expander"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/repository"
)

// operation is the unit of work performed under an instance lock.
type operation struct {
	definition *repository.Definition
	instance   *execution.ProcessInstance
	jobs       []*Job
}

// withInstance runs fn under the instance lock and dispatches the jobs it
// scheduled once the lock is released.
func (s *Service) withInstance(ctx context.Context, instanceID string, fn func(op *operation) error) error {
	unlock := s.locks.Lock(instanceID)
	op := &operation{}
	err := fn(op)
	unlock()
	for _, job := range op.jobs {
		if pErr := s.queue.Publish(ctx, job); pErr != nil {
			s.logger.Error("failed to publish job", logging.ProcessID(job.ProcessInstanceID), logging.ActivityID(job.ActivityID), logging.Error(pErr))
		}
	}
	return err
}

// open loads the instance and its definition into op.
func (s *Service) open(ctx context.Context, op *operation, instanceID string) error {
	instance, err := s.processDAO.Load(ctx, instanceID)
	if err != nil {
		return fmt.Errorf("failed to load process instance %s: %w", instanceID, err)
	}
	if instance.Variables == nil {
		instance.Variables = execution.Variables{}
	}
	definition, err := s.repository.Definition(instance.DefinitionID)
	if err != nil {
		return err
	}
	op.instance = instance
	op.definition = definition
	return nil
}

// run drives exec until it reaches a wait state, is scheduled or ends.
// resumed skips the async boundary of the current activity.
func (s *Service) run(ctx context.Context, op *operation, exec *execution.Execution, resumed bool) error {
	for {
		node := op.definition.Process.Element(exec.ActivityID)
		if node == nil {
			return fmt.Errorf("process %s: unknown activity %s", op.definition.Key, exec.ActivityID)
		}
		if node.Node().Async && !resumed {
			exec.Schedule()
			op.jobs = append(op.jobs, &Job{ProcessInstanceID: exec.ProcessInstanceID, ExecutionID: exec.ID, ActivityID: exec.ActivityID})
			return s.executionDAO.Save(ctx, exec)
		}
		resumed = false
		s.publish(ctx, event.TypeActivityStarted, op, exec, nil)
		proceed, err := s.execute(ctx, op, exec, node)
		if err != nil {
			return fmt.Errorf("activity %s: %w", exec.ActivityID, err)
		}
		if !proceed {
			return s.executionDAO.Save(ctx, exec)
		}
		s.publish(ctx, event.TypeActivityCompleted, op, exec, nil)
		if proceed, err = s.leave(ctx, op, exec, node); err != nil || !proceed {
			return err
		}
	}
}

// execute applies the activity behavior and reports whether the execution
// may leave the activity right away.
func (s *Service) execute(ctx context.Context, op *operation, exec *execution.Execution, node bpmn.FlowNode) (bool, error) {
	switch actual := node.(type) {
	case *bpmn.StartEvent, *bpmn.EndEvent:
		return true, nil
	case *bpmn.ReceiveTask:
		exec.Wait()
		return false, nil
	case *bpmn.UserTask:
		task := execution.NewTask(s.newID())
		task.Name = actual.Name
		task.TaskDefinitionKey = actual.ID
		task.ProcessInstanceID = op.instance.ID
		task.ProcessDefinitionID = op.definition.ID
		task.DefinitionKey = op.definition.Key
		task.ExecutionID = exec.ID
		task.Assignee = expander.Text(actual.Assignee, execution.NewVariables(op.instance.Variables, exec.LocalVariables))
		task.CandidateGroups = actual.CandidateGroups
		task.FormKey = actual.FormKey
		if err := s.taskDAO.Save(ctx, task); err != nil {
			return false, err
		}
		exec.Wait()
		s.publish(ctx, event.TypeTaskCreated, op, exec, task)
		return false, nil
	case *bpmn.ServiceTask:
		delegate, err := s.delegate(actual.Type)
		if err != nil {
			return false, err
		}
		call := &Call{Definition: op.definition, Instance: op.instance, Execution: exec, Task: actual}
		callCtx := execution.WithValue[*execution.ProcessInstance](ctx, op.instance)
		result, err := delegate.Execute(callCtx, call)
		if err != nil {
			return false, err
		}
		if actual.ResultVariable != "" {
			if result != nil {
				op.instance.Variables[actual.ResultVariable] = result
			}
		} else {
			op.instance.Variables.Merge(result)
		}
		return true, nil
	}
	return false, fmt.Errorf("unsupported element %T", node)
}

// leave follows the outgoing flows of node. One flow moves exec along; more
// flows fork a child execution per extra flow; none ends exec.
func (s *Service) leave(ctx context.Context, op *operation, exec *execution.Execution, node bpmn.FlowNode) (bool, error) {
	flows := op.definition.Process.OutgoingFlows(node.ElementID())
	if len(flows) == 0 {
		exec.End()
		return false, s.executionDAO.Save(ctx, exec)
	}
	for _, flow := range flows[1:] {
		child := execution.NewExecution(s.newID(), exec.ProcessInstanceID, flow.TargetRef)
		child.ParentID = exec.ID
		if err := s.run(ctx, op, child, false); err != nil {
			return false, err
		}
	}
	exec.MoveTo(flows[0].TargetRef)
	return true, nil
}

// signal moves a waiting execution out of its activity.
func (s *Service) signal(ctx context.Context, op *operation, exec *execution.Execution, variables map[string]interface{}) error {
	if exec.State != execution.StateWaiting {
		return fmt.Errorf("%w: %s in state %s", ErrNotWaiting, exec.ID, exec.State)
	}
	if op.instance.State.IsFinished() {
		return fmt.Errorf("%w: %s", ErrProcessFinished, op.instance.ID)
	}
	node := op.definition.Process.Element(exec.ActivityID)
	if node == nil {
		return fmt.Errorf("process %s: unknown activity %s", op.definition.Key, exec.ActivityID)
	}
	op.instance.Variables.Merge(variables)
	exec.MoveTo(exec.ActivityID)
	s.publish(ctx, event.TypeActivityCompleted, op, exec, nil)
	proceed, err := s.leave(ctx, op, exec, node)
	if err != nil {
		return err
	}
	if proceed {
		return s.run(ctx, op, exec, false)
	}
	return nil
}

// finish completes the instance when no live execution remains and saves it.
func (s *Service) finish(ctx context.Context, op *operation) error {
	if op.instance.State == execution.ProcessStateActive {
		live, err := s.executionDAO.List(ctx,
			dao.NewParameter(dao.ParamProcessInstanceID, op.instance.ID),
			dao.NewParameter(dao.ParamState, string(execution.StateActive), string(execution.StateWaiting), string(execution.StateScheduled)))
		if err != nil {
			return err
		}
		if len(live) == 0 {
			op.instance.Complete()
			s.logger.Info("process completed", logging.ProcessID(op.instance.ID), logging.ProcessKey(op.definition.Key))
			s.publish(ctx, event.TypeProcessCompleted, op, nil, nil)
		}
	}
	return s.processDAO.Save(ctx, op.instance)
}

// fail marks exec and the instance failed and saves them.
func (s *Service) fail(ctx context.Context, op *operation, exec *execution.Execution, cause error) error {
	exec.Fail(cause)
	if err := s.executionDAO.Save(ctx, exec); err != nil {
		return err
	}
	op.instance.Fail(cause)
	s.logger.Error("process failed", logging.ProcessID(op.instance.ID), logging.ActivityID(exec.ActivityID), logging.Error(cause))
	s.publish(ctx, event.TypeProcessFailed, op, exec, nil)
	return s.processDAO.Save(ctx, op.instance)
}

func (s *Service) publish(ctx context.Context, eventType event.Type, op *operation, exec *execution.Execution, task *execution.Task) {
	if s.events == nil {
		return
	}
	eventContext := &event.Context{Type: eventType, ProcessInstanceID: op.instance.ID, DefinitionKey: op.definition.Key}
	if exec != nil {
		eventContext.ExecutionID = exec.ID
		eventContext.ActivityID = exec.ActivityID
	}
	var err error
	switch {
	case task != nil:
		eventContext.TaskID = task.ID
		err = publishData(ctx, s.events, eventContext, task.Clone())
	case exec != nil:
		err = publishData(ctx, s.events, eventContext, exec.Clone())
	default:
		err = publishData(ctx, s.events, eventContext, op.instance.Clone())
	}
	if err != nil {
		s.logger.Warn("failed to publish event", logging.ProcessID(op.instance.ID), logging.Error(err))
	}
}

func publishData[T any](ctx context.Context, events *event.Service, eventContext *event.Context, data *T) error {
	publisher, err := event.PublisherOf[T](events)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, event.NewEvent(eventContext, *data))
}
