package flowbridge

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/dao/task"
	"github.com/viant/flowbridge/service/processor"
)

// TaskService queries and completes user tasks
type TaskService struct {
	processor *processor.Service
}

// Query starts a task query; only open tasks match unless IncludeCompleted is set
func (s *TaskService) Query() *TaskQuery {
	return &TaskQuery{service: s}
}

// Complete completes an open task and continues its process
func (s *TaskService) Complete(ctx context.Context, taskID string, variables map[string]interface{}) error {
	return s.processor.CompleteTask(ctx, taskID, variables)
}

// TaskQuery filters tasks. Setters return the query for chaining.
type TaskQuery struct {
	service          *TaskService
	parameters       []*dao.Parameter
	includeCompleted bool
}

func (q *TaskQuery) with(name, value string) *TaskQuery {
	q.parameters = append(q.parameters, dao.NewParameter(name, value))
	return q
}

func (q *TaskQuery) ProcessInstanceID(id string) *TaskQuery {
	return q.with(dao.ParamProcessInstanceID, id)
}

func (q *TaskQuery) DefinitionKey(key string) *TaskQuery {
	return q.with(dao.ParamDefinitionKey, key)
}

// TaskDefinitionKey filters by the user task element id
func (q *TaskQuery) TaskDefinitionKey(key string) *TaskQuery {
	return q.with(dao.ParamTaskDefinitionKey, key)
}

func (q *TaskQuery) Assignee(assignee string) *TaskQuery {
	return q.with(dao.ParamAssignee, assignee)
}

// IncludeCompleted matches completed tasks too
func (q *TaskQuery) IncludeCompleted() *TaskQuery {
	q.includeCompleted = true
	return q
}

// List returns matching tasks ordered by creation time
func (q *TaskQuery) List(ctx context.Context) ([]*execution.Task, error) {
	parameters := q.parameters
	if !q.includeCompleted {
		parameters = append(parameters[:len(parameters):len(parameters)], dao.NewParameter(dao.ParamState, task.StateOpen))
	}
	tasks, err := q.service.processor.Tasks(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (q *TaskQuery) Count(ctx context.Context) (int, error) {
	tasks, err := q.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// SingleResult returns the only matching task; no match or more than one
// match is an error
func (q *TaskQuery) SingleResult(ctx context.Context) (*execution.Task, error) {
	tasks, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(tasks) {
	case 0:
		return nil, fmt.Errorf("task: %w", dao.ErrNotFound)
	case 1:
		return tasks[0], nil
	}
	return nil, fmt.Errorf("%w: %d tasks match", ErrNotUnique, len(tasks))
}
