package flowbridge_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/flowbridge"
	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/bridge"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/route"
)

//go:embed testdata/*
var embedFS embed.FS

func newService(t *testing.T, config *flowbridge.Config) *flowbridge.Service {
	t.Setenv("FLOWBRIDGE_REVIEWER", "kermit")
	srv, err := flowbridge.New(
		flowbridge.WithConfig(config),
		flowbridge.WithFSOptions(&embedFS),
		flowbridge.WithLogger(logging.Discard()),
		flowbridge.WithIDGenerator(idgen.Sequential("id")),
	)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, srv.Runtime().Start(ctx))
	t.Cleanup(func() { _ = srv.Runtime().Shutdown(ctx) })
	return srv
}

// awaitWaiting polls until an execution of instanceID waits in activityID;
// asynchronous activities reach their wait state on a worker.
func awaitWaiting(t *testing.T, rt *flowbridge.Runtime, instanceID, activityID string) *execution.Execution {
	var waiting *execution.Execution
	require.Eventually(t, func() bool {
		var err error
		waiting, err = rt.WaitingExecution(context.Background(), instanceID, activityID)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "no execution waiting in %s", activityID)
	return waiting
}

func loadConfig(t *testing.T) *flowbridge.Config {
	t.Setenv("FLOWBRIDGE_LOG_LEVEL", "debug")
	config, err := flowbridge.LoadConfig(context.Background(), "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)
	return config
}

func TestLoadConfig(t *testing.T) {
	config := loadConfig(t)
	assert.Equal(t, 1, config.Processor.Workers)
	assert.Equal(t, 10*time.Millisecond, config.Processor.RetryDelay)
	assert.Equal(t, messaging.VendorMemory, config.Queue.Vendor)
	assert.Equal(t, 3, config.Queue.MaxRetries)
	assert.Equal(t, 2*time.Second, config.Bridge.Timeout)
	assert.Equal(t, "initiator", config.Bridge.ProcessInitiatorHeaderName)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "flowbridge-test", config.Log.Service)
	assert.Equal(t, "embed:///testdata/definitions", config.Definitions)

	_, err := flowbridge.LoadConfig(context.Background(), "embed:///testdata/missing.yaml", &embedFS)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *flowbridge.Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(*flowbridge.Config) {}},
		{description: "no workers", mutate: func(c *flowbridge.Config) { c.Processor.Workers = 0 }, expectErr: true},
		{description: "fs store without base url", mutate: func(c *flowbridge.Config) { c.Store.Vendor = messaging.VendorFS }, expectErr: true},
		{description: "fs store", mutate: func(c *flowbridge.Config) {
			c.Store.Vendor = messaging.VendorFS
			c.Store.BaseURL = "mem://localhost/store"
		}},
		{description: "unknown queue vendor", mutate: func(c *flowbridge.Config) { c.Queue.Vendor = "kafka" }, expectErr: true},
		{description: "disabled events are not validated", mutate: func(c *flowbridge.Config) { c.Events.Vendor = "kafka" }},
		{description: "bridge resolution", mutate: func(c *flowbridge.Config) { c.Bridge.TimeResolution = 0 }, expectErr: true},
	}
	for _, testCase := range testCases {
		config := flowbridge.DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestService_OrderFlow(t *testing.T) {
	srv := newService(t, loadConfig(t))
	ctx := context.Background()
	rt := srv.Runtime()

	definition, err := srv.Repository().Latest("order")
	require.NoError(t, err)
	assert.Equal(t, "Order handling", definition.Name)

	require.NoError(t, srv.Routes().AddRoutes(
		route.From("direct:orders").To("flow:order?copyVariablesFromProperties=(customer|priority)"),
		route.From("direct:payments").To("flow:order:payment?copyVariablesFromHeader=(amount|currency)"),
		route.From("flow:order:notify?copyVariablesToBodyAsMap=true").
			Process(route.ProcessorFunc(func(_ context.Context, exchange *route.Exchange) error {
				body := exchange.In.Body.(map[string]interface{})
				exchange.Out = route.NewMessage(map[string]interface{}{"notified": body["customer"]})
				return nil
			})).
			To("mock:notified"),
	))
	template := srv.Routes().ProducerTemplate()

	order := route.NewExchange().
		SetProperty("customer", "piggy").
		SetProperty("channel", "web").
		SetProperty(bridge.PropertyProcessKey, "order-1")
	order.In.SetHeader("initiator", "fozzie")
	order, err = template.Send(ctx, "direct:orders", order)
	require.NoError(t, err)
	instanceID, _ := order.Property(bridge.PropertyProcessID)
	require.NotNil(t, instanceID)
	assert.Equal(t, instanceID, order.Result().Body)

	instance, err := rt.ProcessInstance(ctx, instanceID.(string))
	require.NoError(t, err)
	assert.Equal(t, "order-1", instance.BusinessKey)
	assert.Equal(t, "fozzie", instance.Variables["initiator"])
	assert.Equal(t, "piggy", instance.Variables["customer"])
	assert.NotContains(t, instance.Variables, "channel")

	task, err := srv.Tasks().Query().ProcessInstanceID(instance.ID).SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, "review", task.TaskDefinitionKey)
	assert.Equal(t, "kermit", task.Assignee)
	require.NoError(t, srv.Tasks().Complete(ctx, task.ID, map[string]interface{}{"approved": true}))

	waiting := awaitWaiting(t, rt, instance.ID, "payment")
	assert.Equal(t, execution.StateWaiting, waiting.State)

	payment := route.NewExchange().SetProperty(bridge.PropertyProcessKey, "order-1")
	payment.In.SetHeader("amount", 42).SetHeader("currency", "EUR").SetHeader("trace", "x")
	_, err = template.Send(ctx, "direct:payments", payment)
	require.NoError(t, err)

	instance, err = rt.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, instance.State)
	assert.Equal(t, 42, instance.Variables["amount"])
	assert.Equal(t, "EUR", instance.Variables["currency"])
	assert.Equal(t, true, instance.Variables["approved"])
	assert.Equal(t, "piggy", instance.Variables["notified"])
	assert.NotContains(t, instance.Variables, "trace")

	mock, err := srv.Routes().Mock("notified")
	require.NoError(t, err)
	assert.Len(t, mock.Received(), 1)
}

func TestService_EditorDefinition(t *testing.T) {
	srv := newService(t, flowbridge.DefaultConfig())
	ctx := context.Background()
	rt := srv.Runtime()

	definition, err := rt.LoadDefinition(ctx, "embed:///testdata/shipment.json")
	require.NoError(t, err)
	assert.Equal(t, "shipment", definition.Key)
	require.NoError(t, srv.Routes().AddRoutes(route.From("direct:notify").To("mock:shipped")))

	instance, err := rt.StartProcessByKey(ctx, "shipment", "s-1", map[string]interface{}{"orderId": "o-1"})
	require.NoError(t, err)

	task, err := srv.Tasks().Query().DefinitionKey("shipment").Assignee("kermit").SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "management"}, task.CandidateGroups)
	require.NoError(t, srv.Tasks().Complete(ctx, task.ID, nil))

	for _, activityID := range []string{"payment", "receipt"} {
		waiting := awaitWaiting(t, rt, instance.ID, activityID)
		require.NoError(t, rt.Trigger(ctx, waiting.ID, map[string]interface{}{activityID: "done"}), activityID)
	}

	instance, err = rt.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, instance.State)
	assert.Equal(t, "done", instance.Variables["receipt"])

	mock, err := srv.Routes().Mock("shipped")
	require.NoError(t, err)
	received := mock.Received()
	require.Len(t, received, 1)
	orderID, _ := received[0].Property("orderId")
	assert.Equal(t, "o-1", orderID)
}

func TestTaskQuery(t *testing.T) {
	config := loadConfig(t)
	srv := newService(t, config)
	ctx := context.Background()
	rt := srv.Runtime()

	first, err := rt.StartProcessByKey(ctx, "order", "a", nil)
	require.NoError(t, err)
	_, err = rt.StartProcessByKey(ctx, "order", "b", nil)
	require.NoError(t, err)

	count, err := srv.Tasks().Query().DefinitionKey("order").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = srv.Tasks().Query().TaskDefinitionKey("review").SingleResult(ctx)
	assert.ErrorIs(t, err, flowbridge.ErrNotUnique)
	_, err = srv.Tasks().Query().Assignee("gonzo").SingleResult(ctx)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	task, err := srv.Tasks().Query().ProcessInstanceID(first.ID).SingleResult(ctx)
	require.NoError(t, err)
	require.NoError(t, srv.Tasks().Complete(ctx, task.ID, nil))
	assert.Error(t, srv.Tasks().Complete(ctx, task.ID, nil))

	count, err = srv.Tasks().Query().DefinitionKey("order").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = srv.Tasks().Query().DefinitionKey("order").IncludeCompleted().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_FSStore(t *testing.T) {
	config := flowbridge.DefaultConfig()
	config.Store = flowbridge.StoreConfig{Vendor: messaging.VendorFS, BaseURL: "mem://localhost/flowbridge/store"}
	config.Queue.Vendor = messaging.VendorFS
	config.Queue.BaseURL = "mem://localhost/flowbridge/queue"
	config.Events = flowbridge.EventsConfig{Enabled: true, Vendor: messaging.VendorMemory}
	srv := newService(t, config)
	ctx := context.Background()
	rt := srv.Runtime()

	_, err := rt.DeployYAML([]byte(`
id: invoice
elements:
  start: {type: startEvent}
  wait: {type: receiveTask}
  end: {type: endEvent}
`))
	require.NoError(t, err)
	instance, err := rt.StartProcessByKey(ctx, "invoice", "inv-1", map[string]interface{}{"total": "10"})
	require.NoError(t, err)

	instances, err := rt.ProcessInstances(ctx,
		dao.NewParameter(dao.ParamDefinitionKey, "invoice"),
		dao.NewParameter(dao.ParamBusinessKey, "inv-1"))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, instance.ID, instances[0].ID)

	waiting, err := rt.WaitingExecution(ctx, instance.ID, "wait")
	require.NoError(t, err)
	require.NoError(t, rt.SetVariables(ctx, waiting.ID, map[string]interface{}{"paid": "yes"}))
	variables, err := rt.Variables(ctx, waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", variables["total"])
	assert.Equal(t, "yes", variables["paid"])

	require.NoError(t, rt.Trigger(ctx, waiting.ID, nil))
	instance, err = rt.ProcessInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ProcessStateCompleted, instance.State)
}

func TestNew_InvalidConfig(t *testing.T) {
	config := flowbridge.DefaultConfig()
	config.Processor.Workers = 0
	_, err := flowbridge.New(flowbridge.WithConfig(config), flowbridge.WithLogger(logging.Discard()))
	assert.Error(t, err)
}
