package route

import (
	"context"
	"fmt"
	"sync"
)

const SchemeDirect = "direct"

// DirectComponent delivers exchanges synchronously to the route consuming
// the same name.
type DirectComponent struct {
	mux       sync.RWMutex
	consumers map[string]Processor
}

func NewDirectComponent() *DirectComponent {
	return &DirectComponent{consumers: map[string]Processor{}}
}

func (d *DirectComponent) CreateEndpoint(_ *Context, uri, remaining string, _ Params) (Endpoint, error) {
	if remaining == "" {
		return nil, fmt.Errorf("direct endpoint name is required")
	}
	return &directEndpoint{uri: uri, name: remaining, component: d}, nil
}

func (d *DirectComponent) consumer(name string) (Processor, bool) {
	d.mux.RLock()
	defer d.mux.RUnlock()
	processor, ok := d.consumers[name]
	return processor, ok
}

type directEndpoint struct {
	uri       string
	name      string
	component *DirectComponent
}

func (e *directEndpoint) URI() string { return e.uri }

func (e *directEndpoint) CreateProducer() (Processor, error) {
	return ProcessorFunc(func(ctx context.Context, exchange *Exchange) error {
		processor, ok := e.component.consumer(e.name)
		if !ok {
			return fmt.Errorf("%w on endpoint %s", ErrNoConsumer, e.uri)
		}
		return processor.Process(ctx, exchange)
	}), nil
}

func (e *directEndpoint) CreateConsumer(processor Processor) (Consumer, error) {
	return &directConsumer{endpoint: e, processor: processor}, nil
}

type directConsumer struct {
	endpoint  *directEndpoint
	processor Processor
}

func (c *directConsumer) Start(context.Context) error {
	component := c.endpoint.component
	component.mux.Lock()
	defer component.mux.Unlock()
	if _, ok := component.consumers[c.endpoint.name]; ok {
		return fmt.Errorf("endpoint %s already has a consumer", c.endpoint.uri)
	}
	component.consumers[c.endpoint.name] = c.processor
	return nil
}

func (c *directConsumer) Stop() error {
	component := c.endpoint.component
	component.mux.Lock()
	defer component.mux.Unlock()
	delete(component.consumers, c.endpoint.name)
	return nil
}
