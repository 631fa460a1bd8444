package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	ememory "github.com/viant/flowbridge/service/dao/execution/memory"
	pmemory "github.com/viant/flowbridge/service/dao/process/memory"
	tmemory "github.com/viant/flowbridge/service/dao/task/memory"
	"github.com/viant/flowbridge/service/messaging/memory"
	"github.com/viant/flowbridge/service/repository"
)

func newService(t *testing.T, options ...Option) (*Service, *repository.Service) {
	repo := repository.New()
	options = append([]Option{
		WithRepository(repo),
		WithMessageQueue(memory.NewQueue[Job](memory.DefaultConfig())),
		WithProcessDAO(pmemory.New()),
		WithExecutionDAO(ememory.New()),
		WithTaskDAO(tmemory.New()),
		WithIDGenerator(idgen.Sequential("id")),
		WithConfig(Config{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond}),
	}, options...)
	srv, err := New(options...)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Shutdown)
	return srv, repo
}

func deploy(t *testing.T, repo *repository.Service, process *bpmn.Process) *repository.Definition {
	definition, err := repo.Deploy(process)
	require.NoError(t, err)
	return definition
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
	_, err = New(WithRepository(repository.New()))
	assert.Error(t, err)
}

func TestService_StartProcess_RunsToCompletion(t *testing.T) {
	srv, repo := newService(t)
	fields := bpmn.NewServiceTask("assign", "Assign", DelegateVariables)
	fields.Fields = map[string]string{"status": "assigned"}
	process := bpmn.NewProcess("simple", "Simple").
		Add(bpmn.NewStartEvent("start"), fields, bpmn.NewEndEvent("end")).
		Link("start", "assign").Link("assign", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition, BusinessKey: "bk-1", Variables: map[string]interface{}{"amount": 10}})
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, instance.State)
	assert.Equal(t, "assigned", instance.Variables["status"])
	assert.Equal(t, 10, instance.Variables["amount"])
	assert.Equal(t, "bk-1", instance.BusinessKey)

	stored, err := srv.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, stored.State)

	live, err := srv.Executions(ctx, dao.NewParameter(dao.ParamProcessInstanceID, instance.ID), dao.NewParameter(dao.ParamState, string(execution.StateWaiting)))
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestService_ReceiveTask_Trigger(t *testing.T) {
	srv, repo := newService(t)
	process := bpmn.NewProcess("receive", "").
		Add(bpmn.NewStartEvent("start"), bpmn.NewReceiveTask("wait", "Wait"), bpmn.NewEndEvent("end")).
		Link("start", "wait").Link("wait", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition})
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateActive, instance.State)

	waiting, err := srv.Executions(ctx, dao.NewParameter(dao.ParamProcessInstanceID, instance.ID), dao.NewParameter(dao.ParamActivityID, "wait"))
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, execution.StateWaiting, waiting[0].State)

	require.NoError(t, srv.SetVariables(ctx, waiting[0].ID, map[string]interface{}{"a": "1"}))
	require.NoError(t, srv.Trigger(ctx, waiting[0].ID, map[string]interface{}{"b": "2"}))

	variables, err := srv.Variables(ctx, waiting[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "1", variables["a"])
	assert.Equal(t, "2", variables["b"])

	stored, err := srv.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, stored.State)

	err = srv.Trigger(ctx, waiting[0].ID, nil)
	assert.True(t, errors.Is(err, ErrNotWaiting))
}

func TestService_UserTask(t *testing.T) {
	srv, repo := newService(t)
	start := bpmn.NewStartEvent("start")
	start.Initiator = "starter"
	review := bpmn.NewUserTask("review", "Review")
	review.Assignee = "${starter}"
	process := bpmn.NewProcess("approval", "").
		Add(start, review, bpmn.NewEndEvent("end")).
		Link("start", "review").Link("review", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition, Initiator: "kermit"})
	require.NoError(t, err)
	assert.Equal(t, "kermit", instance.Initiator)
	assert.Equal(t, "kermit", instance.Variables["starter"])

	tasks, err := srv.Tasks(ctx, dao.NewParameter(dao.ParamProcessInstanceID, instance.ID))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "review", tasks[0].TaskDefinitionKey)
	assert.Equal(t, "kermit", tasks[0].Assignee)
	assert.Equal(t, "approval", tasks[0].DefinitionKey)

	require.NoError(t, srv.CompleteTask(ctx, tasks[0].ID, map[string]interface{}{"approved": true}))
	stored, err := srv.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, stored.State)
	assert.Equal(t, true, stored.Variables["approved"])

	err = srv.CompleteTask(ctx, tasks[0].ID, nil)
	assert.True(t, errors.Is(err, ErrTaskCompleted))
}

func TestService_ParallelFork(t *testing.T) {
	srv, repo := newService(t)
	process := bpmn.NewProcess("fork", "").
		Add(bpmn.NewStartEvent("start"), bpmn.NewReceiveTask("left", ""), bpmn.NewReceiveTask("right", ""), bpmn.NewEndEvent("end")).
		Link("start", "left").Link("start", "right").Link("left", "end").Link("right", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition})
	require.NoError(t, err)
	waiting, err := srv.Executions(ctx, dao.NewParameter(dao.ParamProcessInstanceID, instance.ID), dao.NewParameter(dao.ParamState, string(execution.StateWaiting)))
	require.NoError(t, err)
	require.Len(t, waiting, 2)

	require.NoError(t, srv.Trigger(ctx, waiting[0].ID, nil))
	stored, _ := srv.ProcessInstance(ctx, instance.ID)
	assert.Equal(t, execution.ProcessStateActive, stored.State)

	require.NoError(t, srv.Trigger(ctx, waiting[1].ID, nil))
	stored, _ = srv.ProcessInstance(ctx, instance.ID)
	assert.Equal(t, execution.ProcessStateCompleted, stored.State)
}

func TestService_AsyncServiceTask(t *testing.T) {
	var calls int32
	flaky := DelegateFunc(func(ctx context.Context, call *Call) (map[string]interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("temporary outage")
		}
		instance := execution.ContextValue[*execution.ProcessInstance](ctx)
		return map[string]interface{}{"handledBy": instance.ID}, nil
	})
	srv, repo := newService(t, WithDelegate("flaky", flaky))
	task := bpmn.NewServiceTask("call", "Call", "flaky")
	task.Async = true
	process := bpmn.NewProcess("async", "").
		Add(bpmn.NewStartEvent("start"), task, bpmn.NewEndEvent("end")).
		Link("start", "call").Link("call", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition})
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateActive, instance.State)

	assert.Eventually(t, func() bool {
		stored, err := srv.ProcessInstance(ctx, instance.ID)
		return err == nil && stored.State == execution.ProcessStateCompleted
	}, 2*time.Second, 10*time.Millisecond)
	stored, _ := srv.ProcessInstance(ctx, instance.ID)
	assert.Equal(t, instance.ID, stored.Variables["handledBy"])
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestService_AsyncServiceTask_Exhausted(t *testing.T) {
	failing := DelegateFunc(func(ctx context.Context, call *Call) (map[string]interface{}, error) {
		return nil, errors.New("permanent outage")
	})
	srv, repo := newService(t, WithDelegate("failing", failing))
	task := bpmn.NewServiceTask("call", "Call", "failing")
	task.Async = true
	process := bpmn.NewProcess("exhausted", "").
		Add(bpmn.NewStartEvent("start"), task, bpmn.NewEndEvent("end")).
		Link("start", "call").Link("call", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition})
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		stored, err := srv.ProcessInstance(ctx, instance.ID)
		return err == nil && stored.State == execution.ProcessStateFailed
	}, 2*time.Second, 10*time.Millisecond)
	stored, _ := srv.ProcessInstance(ctx, instance.ID)
	assert.Contains(t, stored.Error, "permanent outage")
}

func TestService_SyncFailure(t *testing.T) {
	srv, repo := newService(t)
	process := bpmn.NewProcess("broken", "").
		Add(bpmn.NewStartEvent("start"), bpmn.NewServiceTask("call", "", "missing"), bpmn.NewEndEvent("end")).
		Link("start", "call").Link("call", "end")
	definition := deploy(t, repo, process)

	ctx := context.Background()
	_, err := srv.StartProcess(ctx, &StartRequest{Definition: definition})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDelegate))

	failed, err := srv.ProcessInstances(ctx, dao.NewParameter(dao.ParamState, string(execution.ProcessStateFailed)))
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}

func TestService_ResultVariable(t *testing.T) {
	srv, repo := newService(t)
	task := bpmn.NewServiceTask("assign", "", DelegateVariables)
	task.Fields = map[string]string{"x": "1"}
	task.ResultVariable = "result"
	process := bpmn.NewProcess("result", "").
		Add(bpmn.NewStartEvent("start"), task, bpmn.NewEndEvent("end")).
		Link("start", "assign").Link("assign", "end")
	definition := deploy(t, repo, process)

	instance, err := srv.StartProcess(context.Background(), &StartRequest{Definition: definition})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"x": "1"}, instance.Variables["result"])
	_, ok := instance.Variables["x"]
	assert.False(t, ok)
}

func TestService_ExpandsReferences(t *testing.T) {
	srv, repo := newService(t)
	review := bpmn.NewUserTask("review", "Review")
	review.Assignee = "${order.assignee}"
	copyOrder := bpmn.NewServiceTask("copy", "", DelegateVariables)
	copyOrder.Fields = map[string]string{"total": "${order.total}", "label": "order-${order.items[0]}"}
	process := bpmn.NewProcess("nested", "").
		Add(bpmn.NewStartEvent("start"), copyOrder, review, bpmn.NewEndEvent("end")).
		Link("start", "copy").Link("copy", "review").Link("review", "end")
	definition := deploy(t, repo, process)

	testCases := []struct {
		description    string
		variables      map[string]interface{}
		expectAssignee string
		expectTotal    interface{}
		expectLabel    string
	}{
		{
			description:    "nested map path",
			variables:      map[string]interface{}{"order": map[string]interface{}{"assignee": "piggy", "total": 42.5, "items": []interface{}{"A-1"}}},
			expectAssignee: "piggy",
			expectTotal:    42.5,
			expectLabel:    "order-A-1",
		},
		{
			description:    "missing path",
			variables:      map[string]interface{}{"order": map[string]interface{}{}},
			expectAssignee: "",
			expectTotal:    "",
			expectLabel:    "order-",
		},
	}
	ctx := context.Background()
	for _, testCase := range testCases {
		instance, err := srv.StartProcess(ctx, &StartRequest{Definition: definition, Variables: testCase.variables})
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectTotal, instance.Variables["total"], testCase.description)
		assert.Equal(t, testCase.expectLabel, instance.Variables["label"], testCase.description)

		tasks, err := srv.Tasks(ctx, dao.NewParameter(dao.ParamProcessInstanceID, instance.ID))
		require.NoError(t, err, testCase.description)
		require.Len(t, tasks, 1, testCase.description)
		assert.Equal(t, testCase.expectAssignee, tasks[0].Assignee, testCase.description)
	}
}
