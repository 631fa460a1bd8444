package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/route"
	"github.com/viant/flowbridge/tracing"
)

// start launches the latest definition of the endpoint process.
func (e *flowEndpoint) start(ctx context.Context, exchange *route.Exchange) (err error) {
	ctx, span := tracing.StartSpan(ctx, "bridge.start "+e.ProcessKey, tracing.KindProducer)
	defer func() { tracing.EndSpan(span, err) }()

	definition, err := e.component.definitions.Latest(e.ProcessKey)
	if err != nil {
		return fmt.Errorf("failed to resolve process %s: %w", e.ProcessKey, err)
	}
	request := &processor.StartRequest{
		Definition:  definition,
		BusinessKey: stringProperty(exchange, PropertyProcessKey),
		Variables:   PrepareVariables(exchange, e.Endpoint),
	}
	if name := e.ProcessInitiatorHeaderName; name != "" {
		if value, ok := exchange.Result().Header(name); ok && value != nil {
			request.Initiator = fmt.Sprint(value)
		}
	}
	instance, err := e.component.engine.StartProcess(ctx, request)
	if err != nil {
		return err
	}
	span.WithAttributes(map[string]string{"process.instance.id": instance.ID})
	e.component.logger.Debug("process started from exchange",
		logging.ExchangeID(exchange.ID), logging.ProcessID(instance.ID), logging.ProcessKey(e.ProcessKey))

	exchange.SetProperty(PropertyProcessID, instance.ID)
	reply := route.NewMessage(instance.ID)
	if result := exchange.Result(); result != nil {
		reply.Headers = result.Headers.Clone()
	}
	exchange.Out = reply
	return nil
}

// signal triggers the execution waiting in the endpoint activity.
func (e *flowEndpoint) signal(ctx context.Context, exchange *route.Exchange) (err error) {
	ctx, span := tracing.StartSpan(ctx, "bridge.signal "+e.Address(), tracing.KindProducer)
	defer func() { tracing.EndSpan(span, err) }()

	engine := e.component.engine
	executionID := stringProperty(exchange, PropertyExecutionID)
	if executionID == "" {
		processID, err := e.processInstanceID(ctx, exchange)
		if err != nil {
			return err
		}
		exchange.SetProperty(PropertyProcessID, processID)
		if executionID, err = e.awaitExecution(ctx, processID); err != nil {
			return err
		}
	}
	span.WithAttributes(map[string]string{"execution.id": executionID})
	if err = engine.Trigger(ctx, executionID, PrepareVariables(exchange, e.Endpoint)); err != nil {
		return err
	}
	e.component.logger.Debug("execution signalled from exchange",
		logging.ExchangeID(exchange.ID), logging.ExecutionID(executionID), logging.ActivityID(e.ActivityID))
	return nil
}

func (e *flowEndpoint) processInstanceID(ctx context.Context, exchange *route.Exchange) (string, error) {
	if id := stringProperty(exchange, PropertyProcessID); id != "" {
		return id, nil
	}
	businessKey := stringProperty(exchange, PropertyProcessKey)
	if businessKey == "" {
		return "", fmt.Errorf("%w: exchange %s carries neither %s nor %s", ErrNoProcessInstance, exchange.ID, PropertyProcessID, PropertyProcessKey)
	}
	instances, err := e.component.engine.ProcessInstances(ctx,
		dao.NewParameter(dao.ParamDefinitionKey, e.ProcessKey),
		dao.NewParameter(dao.ParamBusinessKey, businessKey),
		dao.NewParameter(dao.ParamState, string(execution.ProcessStateActive)))
	if err != nil {
		return "", err
	}
	switch len(instances) {
	case 0:
		return "", fmt.Errorf("%w: %s with business key %s", ErrNoProcessInstance, e.ProcessKey, businessKey)
	case 1:
		return instances[0].ID, nil
	}
	return "", fmt.Errorf("business key %s matches %d active instances of %s", businessKey, len(instances), e.ProcessKey)
}

// awaitExecution polls every TimeResolution until an execution of
// processID waits in the endpoint activity or Timeout elapses.
func (e *flowEndpoint) awaitExecution(ctx context.Context, processID string) (string, error) {
	deadline := time.NewTimer(e.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(e.TimeResolution)
	defer ticker.Stop()
	for {
		executions, err := e.component.engine.Executions(ctx,
			dao.NewParameter(dao.ParamProcessInstanceID, processID),
			dao.NewParameter(dao.ParamActivityID, e.ActivityID),
			dao.NewParameter(dao.ParamState, string(execution.StateWaiting)))
		if err != nil {
			return "", err
		}
		if len(executions) > 0 {
			return executions[0].ID, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("%w: activity %s of process instance %s within %s", ErrNoExecution, e.ActivityID, processID, e.Timeout)
		case <-ticker.C:
		}
	}
}

func stringProperty(exchange *route.Exchange, name string) string {
	value, ok := exchange.Property(name)
	if !ok || value == nil {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprint(value)
}
