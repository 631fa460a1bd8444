package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/repository"
	"github.com/viant/flowbridge/service/route"
)

// Engine is the part of the process runtime used by flow endpoints.
type Engine interface {
	StartProcess(ctx context.Context, request *processor.StartRequest) (*execution.ProcessInstance, error)
	Trigger(ctx context.Context, executionID string, variables map[string]interface{}) error
	Executions(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Execution, error)
	ProcessInstances(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.ProcessInstance, error)
}

// Definitions resolves deployed process definitions.
type Definitions interface {
	Latest(key string) (*repository.Definition, error)
}

// Component is the route component of the flow scheme.
type Component struct {
	engine      Engine
	definitions Definitions
	config      Config
	logger      *slog.Logger

	mux       sync.RWMutex
	consumers map[string]*consumer
}

type Option func(c *Component)

// WithConfig sets endpoint defaults
func WithConfig(config Config) Option {
	return func(c *Component) {
		c.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		c.logger = logger
	}
}

// New creates a flow component.
func New(engine Engine, definitions Definitions, options ...Option) (*Component, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if definitions == nil {
		return nil, fmt.Errorf("definitions are required")
	}
	c := &Component{
		engine:      engine,
		definitions: definitions,
		config:      DefaultConfig(),
		consumers:   map[string]*consumer{},
	}
	for _, option := range options {
		option(c)
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c, nil
}

// CreateEndpoint implements route.Component.
func (c *Component) CreateEndpoint(_ *route.Context, uri, remaining string, params route.Params) (route.Endpoint, error) {
	endpoint, err := newEndpoint(uri, remaining, params, c.config)
	if err != nil {
		return nil, err
	}
	return &flowEndpoint{Endpoint: endpoint, component: c}, nil
}

func (c *Component) consumer(address string) (*consumer, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	consumer, ok := c.consumers[address]
	return consumer, ok
}

type flowEndpoint struct {
	*Endpoint
	component *Component
}

func (e *flowEndpoint) URI() string { return e.Endpoint.URI }

func (e *flowEndpoint) CreateProducer() (route.Processor, error) {
	if e.IsStart() {
		return route.ProcessorFunc(e.start), nil
	}
	return route.ProcessorFunc(e.signal), nil
}

func (e *flowEndpoint) CreateConsumer(processor route.Processor) (route.Consumer, error) {
	if e.IsStart() {
		return nil, fmt.Errorf("flow endpoint %s: consumers require an activity", e.Endpoint.URI)
	}
	return &consumer{endpoint: e, processor: processor}, nil
}

// consumer feeds a route with exchanges from service tasks of one activity.
type consumer struct {
	endpoint  *flowEndpoint
	processor route.Processor
}

func (c *consumer) Start(context.Context) error {
	component := c.endpoint.component
	address := c.endpoint.Address()
	component.mux.Lock()
	defer component.mux.Unlock()
	if _, ok := component.consumers[address]; ok {
		return fmt.Errorf("flow endpoint %s already has a consumer", address)
	}
	component.consumers[address] = c
	return nil
}

func (c *consumer) Stop() error {
	component := c.endpoint.component
	component.mux.Lock()
	defer component.mux.Unlock()
	if component.consumers[c.endpoint.Address()] == c {
		delete(component.consumers, c.endpoint.Address())
	}
	return nil
}
