// Package route is a small message routing framework: exchanges travel
// from a consumer endpoint through a pipeline of processors and producer
// endpoints. Components resolve endpoint URIs by scheme.
package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/progress"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrNoConsumer       = errors.New("no consumer available")
	ErrRouteNotFound    = errors.New("route not found")
	ErrDuplicateRoute   = errors.New("duplicate route")
)

// Context registers components, endpoints and routes.
type Context struct {
	mux            sync.RWMutex
	components     map[string]Component
	endpoints      map[string]Endpoint
	routes         map[string]*Route
	logger         *slog.Logger
	messageHistory bool
	ctx            context.Context
	cancel         context.CancelFunc
	sequence       int
}

type Option func(c *Context)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithMessageHistory toggles recording of PropertyMessageHistory.
func WithMessageHistory(enabled bool) Option {
	return func(c *Context) {
		c.messageHistory = enabled
	}
}

// WithComponent registers a component
func WithComponent(scheme string, component Component) Option {
	return func(c *Context) {
		c.components[scheme] = component
	}
}

// NewContext creates a context with the direct, log, mock and memory queue
// components registered.
func NewContext(options ...Option) *Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Context{
		components:     map[string]Component{},
		endpoints:      map[string]Endpoint{},
		routes:         map[string]*Route{},
		messageHistory: true,
		ctx:            ctx,
		cancel:         cancel,
	}
	c.components[SchemeDirect] = NewDirectComponent()
	c.components[SchemeLog] = &LogComponent{}
	c.components[SchemeMock] = NewMockComponent()
	c.components[SchemeQueue] = NewQueueComponent(nil)
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// AddComponent registers or replaces the component for scheme.
func (c *Context) AddComponent(scheme string, component Component) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.components[scheme] = component
}

// Component returns the component registered for scheme.
func (c *Context) Component(scheme string) (Component, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	component, ok := c.components[scheme]
	return component, ok
}

// Endpoint resolves uri, reusing endpoints created earlier for the same uri.
func (c *Context) Endpoint(uri string) (Endpoint, error) {
	c.mux.RLock()
	endpoint, ok := c.endpoints[uri]
	c.mux.RUnlock()
	if ok {
		return endpoint, nil
	}
	scheme, remaining, params, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	component, ok := c.Component(scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, scheme)
	}
	if endpoint, err = component.CreateEndpoint(c, uri, remaining, params); err != nil {
		return nil, fmt.Errorf("failed to create endpoint %s: %w", uri, err)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if existing, ok := c.endpoints[uri]; ok {
		return existing, nil
	}
	c.endpoints[uri] = endpoint
	return endpoint, nil
}

// Mock returns the mock endpoint registered under name.
func (c *Context) Mock(name string) (*MockEndpoint, error) {
	endpoint, err := c.Endpoint(SchemeMock + ":" + name)
	if err != nil {
		return nil, err
	}
	return endpoint.(*MockEndpoint), nil
}

// AddRoutes builds and starts the supplied route definitions.
func (c *Context) AddRoutes(definitions ...*Definition) error {
	for _, definition := range definitions {
		route, err := c.build(definition)
		if err != nil {
			return err
		}
		c.mux.Lock()
		if _, ok := c.routes[route.ID]; ok {
			c.mux.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, route.ID)
		}
		c.routes[route.ID] = route
		c.mux.Unlock()
		if err = route.start(c.ctx); err != nil {
			c.mux.Lock()
			delete(c.routes, route.ID)
			c.mux.Unlock()
			return fmt.Errorf("failed to start route %s: %w", route.ID, err)
		}
		c.logger.Info("route started", slog.String("route", route.ID), logging.Endpoint(route.From))
	}
	return nil
}

func (c *Context) build(definition *Definition) (*Route, error) {
	if definition.err != nil {
		return nil, definition.err
	}
	id := definition.id
	if id == "" {
		c.mux.Lock()
		c.sequence++
		id = fmt.Sprintf("route%d", c.sequence)
		c.mux.Unlock()
	}
	route := &Route{ID: id, From: definition.from, context: c, progress: progress.New(id, definition.from)}
	for _, step := range definition.steps {
		processor, err := step(c)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", id, err)
		}
		route.pipeline = append(route.pipeline, processor)
	}
	from, err := c.Endpoint(definition.from)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", id, err)
	}
	if route.consumer, err = from.CreateConsumer(route); err != nil {
		return nil, fmt.Errorf("route %s: %w", id, err)
	}
	return route, nil
}

// Routes returns the ids of registered routes.
func (c *Context) Routes() []string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ids := make([]string, 0, len(c.routes))
	for id := range c.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Route returns a registered route.
func (c *Context) Route(id string) (*Route, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	route, ok := c.routes[id]
	return route, ok
}

// StopRoute stops consuming for route id; the route stays registered.
func (c *Context) StopRoute(id string) error {
	route, ok := c.Route(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, id)
	}
	return route.stop()
}

// RemoveRoute stops and unregisters route id.
func (c *Context) RemoveRoute(id string) error {
	if err := c.StopRoute(id); err != nil {
		return err
	}
	c.mux.Lock()
	delete(c.routes, id)
	c.mux.Unlock()
	c.logger.Info("route removed", slog.String("route", id))
	return nil
}

// Shutdown stops and removes every route.
func (c *Context) Shutdown() error {
	var errs []error
	for _, id := range c.Routes() {
		if err := c.RemoveRoute(id); err != nil {
			errs = append(errs, err)
		}
	}
	c.cancel()
	return errors.Join(errs...)
}

// ProducerTemplate returns a template sending exchanges through c.
func (c *Context) ProducerTemplate() *ProducerTemplate {
	return &ProducerTemplate{context: c}
}
