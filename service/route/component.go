package route

import "context"

// Processor handles an exchange.
type Processor interface {
	Process(ctx context.Context, exchange *Exchange) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, exchange *Exchange) error

func (f ProcessorFunc) Process(ctx context.Context, exchange *Exchange) error {
	return f(ctx, exchange)
}

// Component creates endpoints for a URI scheme.
type Component interface {
	CreateEndpoint(c *Context, uri, remaining string, params Params) (Endpoint, error)
}

// Endpoint is an addressable source or destination of exchanges.
type Endpoint interface {
	URI() string
	// CreateProducer returns the processor sending exchanges to the endpoint.
	CreateProducer() (Processor, error)
	// CreateConsumer binds processor to exchanges arriving at the endpoint.
	CreateConsumer(processor Processor) (Consumer, error)
}

// Consumer feeds a route from its endpoint.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}
