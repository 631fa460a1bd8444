package bridge

import (
	"context"
	"fmt"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/route"
	"github.com/viant/flowbridge/tracing"
)

// DelegateRoute is the service task type handled by Delegate.
const DelegateRoute = "route"

// Service task fields read by Delegate.
const (
	// FieldEndpoint sends the exchange to a route endpoint instead of the
	// route consuming flow:<key>:<activity>.
	FieldEndpoint = "endpoint"
	// FieldOptions holds flow endpoint options used with FieldEndpoint,
	// for example "copyVariablesToBodyAsMap=true".
	FieldOptions = "options"
)

// Delegate returns the service task implementation handing the process
// variables to a route and copying the reply back into the process.
//
// Routes invoked this way run while the instance is locked and must not
// signal the same instance synchronously; use a queue endpoint instead.
func (c *Component) Delegate(routes *route.Context) processor.Delegate {
	return processor.DelegateFunc(func(ctx context.Context, call *processor.Call) (result map[string]interface{}, err error) {
		address := call.Definition.Key + ":" + call.Task.ID
		ctx, span := tracing.StartSpan(ctx, "bridge.delegate "+address, tracing.KindClient)
		defer func() { tracing.EndSpan(span, err) }()

		endpoint, target, err := c.target(routes, address, call)
		if err != nil {
			return nil, err
		}
		exchange := prepareExchange(endpoint, call.Variables())
		exchange.SetProperty(PropertyProcessID, call.Instance.ID)
		if call.Instance.BusinessKey != "" {
			exchange.SetProperty(PropertyProcessKey, call.Instance.BusinessKey)
		}
		if err = target(ctx, exchange); err != nil {
			return nil, fmt.Errorf("route for %s failed: %w", address, err)
		}
		result = PrepareVariables(exchange, endpoint)
		delete(result, PropertyProcessID)
		delete(result, PropertyProcessKey)
		c.logger.Debug("route delegate completed", logging.ProcessID(call.Instance.ID),
			logging.ActivityID(call.Task.ID), logging.ExchangeID(exchange.ID))
		return result, nil
	})
}

func (c *Component) target(routes *route.Context, address string, call *processor.Call) (*Endpoint, func(context.Context, *route.Exchange) error, error) {
	if uri := call.Field(FieldEndpoint); uri != "" {
		if routes == nil {
			return nil, nil, fmt.Errorf("service task %s: no route context for endpoint %s", call.Task.ID, uri)
		}
		params := route.Params{}
		if options := call.Field(FieldOptions); options != "" {
			var err error
			if _, _, params, err = route.ParseURI(Scheme + ":" + address + "?" + options); err != nil {
				return nil, nil, err
			}
		}
		endpoint, err := newEndpoint(Scheme+":"+address, address, params, c.config)
		if err != nil {
			return nil, nil, err
		}
		send := func(ctx context.Context, exchange *route.Exchange) error {
			_, err := routes.ProducerTemplate().Send(ctx, uri, exchange)
			return err
		}
		return endpoint, send, nil
	}
	consumer, ok := c.consumer(address)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoRoute, address)
	}
	return consumer.endpoint.Endpoint, consumer.processor.Process, nil
}
