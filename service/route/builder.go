package route

import (
	"context"
	"fmt"
)

type step func(c *Context) (Processor, error)

// Definition describes a route before it is started.
//
//	route.From("direct:start").
//		SetProperty("orderId", "42").
//		To("log:orders?showProperties=true").
//		To("flow:order")
type Definition struct {
	id    string
	from  string
	steps []step
	err   error
}

// From starts a route definition consuming uri.
func From(uri string) *Definition {
	return &Definition{from: uri}
}

// ID sets the route id.
func (d *Definition) ID(id string) *Definition {
	d.id = id
	return d
}

// SetProperty sets an exchange property.
func (d *Definition) SetProperty(name string, value interface{}) *Definition {
	return d.Process(ProcessorFunc(func(_ context.Context, exchange *Exchange) error {
		exchange.SetProperty(name, value)
		return nil
	}))
}

// SetHeader sets a header on the in message.
func (d *Definition) SetHeader(name string, value interface{}) *Definition {
	return d.Process(ProcessorFunc(func(_ context.Context, exchange *Exchange) error {
		exchange.In.SetHeader(name, value)
		return nil
	}))
}

// Transform replaces the body with value.
func (d *Definition) Transform(value interface{}) *Definition {
	return d.Process(ProcessorFunc(func(_ context.Context, exchange *Exchange) error {
		exchange.In.Body = value
		return nil
	}))
}

// TransformFunc replaces the body with the result of fn.
func (d *Definition) TransformFunc(fn func(exchange *Exchange) (interface{}, error)) *Definition {
	return d.Process(ProcessorFunc(func(_ context.Context, exchange *Exchange) error {
		body, err := fn(exchange)
		if err != nil {
			return err
		}
		exchange.In.Body = body
		return nil
	}))
}

// Process appends a custom processor.
func (d *Definition) Process(processor Processor) *Definition {
	if processor == nil {
		d.err = fmt.Errorf("route from %s: nil processor", d.from)
		return d
	}
	d.steps = append(d.steps, func(*Context) (Processor, error) { return processor, nil })
	return d
}

// To sends the exchange to uri.
func (d *Definition) To(uri string) *Definition {
	d.steps = append(d.steps, func(c *Context) (Processor, error) {
		return c.producer(uri)
	})
	return d
}

func (c *Context) producer(uri string) (Processor, error) {
	endpoint, err := c.Endpoint(uri)
	if err != nil {
		return nil, err
	}
	producer, err := endpoint.CreateProducer()
	if err != nil {
		return nil, err
	}
	if !c.messageHistory {
		return producer, nil
	}
	return ProcessorFunc(func(ctx context.Context, exchange *Exchange) error {
		exchange.recordHistory(uri)
		return producer.Process(ctx, exchange)
	}), nil
}
