package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/model/bpmn"
	ememory "github.com/viant/flowbridge/service/dao/execution/memory"
	pmemory "github.com/viant/flowbridge/service/dao/process/memory"
	tmemory "github.com/viant/flowbridge/service/dao/task/memory"
	"github.com/viant/flowbridge/service/messaging/memory"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/repository"
	"github.com/viant/flowbridge/service/route"
)

type fixture struct {
	routes     *route.Context
	engine     *processor.Service
	repository *repository.Service
	component  *Component
}

func newFixture(t *testing.T, processes ...*bpmn.Process) *fixture {
	repo := repository.New()
	for _, process := range processes {
		_, err := repo.Deploy(process)
		require.NoError(t, err)
	}
	engine, err := processor.New(
		processor.WithRepository(repo),
		processor.WithMessageQueue(memory.NewQueue[processor.Job](memory.DefaultConfig())),
		processor.WithProcessDAO(pmemory.New()),
		processor.WithExecutionDAO(ememory.New()),
		processor.WithTaskDAO(tmemory.New()),
		processor.WithIDGenerator(idgen.Sequential("id")),
		processor.WithConfig(processor.Config{Workers: 1, MaxRetries: 1, RetryDelay: 10 * time.Millisecond}),
	)
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	component, err := New(engine, repo, WithConfig(Config{Timeout: time.Second, TimeResolution: 10 * time.Millisecond}))
	require.NoError(t, err)
	routes := route.NewContext(route.WithComponent(Scheme, component))
	engine.RegisterDelegate(DelegateRoute, component.Delegate(routes))
	t.Cleanup(func() {
		_ = routes.Shutdown()
		engine.Shutdown()
	})
	return &fixture{routes: routes, engine: engine, repository: repo, component: component}
}

// userTaskProcess waits in a single user task.
func userTaskProcess() *bpmn.Process {
	return bpmn.NewProcess("testPropertiesProcess", "Test properties").
		Add(bpmn.NewStartEvent("start"), bpmn.NewUserTask("userTask", "User task"), bpmn.NewEndEvent("end")).
		Link("start", "userTask").Link("userTask", "end")
}

// receiveProcess waits in a receive task named payment.
func receiveProcess() *bpmn.Process {
	return bpmn.NewProcess("order", "Order").
		Add(bpmn.NewStartEvent("start"), bpmn.NewReceiveTask("payment", "Payment"), bpmn.NewEndEvent("end")).
		Link("start", "payment").Link("payment", "end")
}
