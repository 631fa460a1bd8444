package route

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const SchemeMock = "mock"

// MockComponent records exchanges for assertions in tests.
type MockComponent struct {
	mux       sync.Mutex
	endpoints map[string]*MockEndpoint
}

func NewMockComponent() *MockComponent {
	return &MockComponent{endpoints: map[string]*MockEndpoint{}}
}

func (m *MockComponent) CreateEndpoint(_ *Context, uri, remaining string, _ Params) (Endpoint, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if endpoint, ok := m.endpoints[remaining]; ok {
		return endpoint, nil
	}
	endpoint := &MockEndpoint{uri: uri, name: remaining, notify: make(chan struct{}, 1)}
	m.endpoints[remaining] = endpoint
	return endpoint, nil
}

// MockEndpoint stores copies of every exchange it receives.
type MockEndpoint struct {
	uri      string
	name     string
	mux      sync.Mutex
	received []*Exchange
	expected int
	notify   chan struct{}
}

func (e *MockEndpoint) URI() string { return e.uri }

func (e *MockEndpoint) CreateProducer() (Processor, error) {
	return ProcessorFunc(func(_ context.Context, exchange *Exchange) error {
		e.mux.Lock()
		e.received = append(e.received, exchange.Clone())
		e.mux.Unlock()
		select {
		case e.notify <- struct{}{}:
		default:
		}
		return nil
	}), nil
}

func (e *MockEndpoint) CreateConsumer(Processor) (Consumer, error) {
	return nil, errUnsupportedConsumer(e.uri)
}

// ExpectedCount sets the number of exchanges AssertSatisfied waits for.
func (e *MockEndpoint) ExpectedCount(n int) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.expected = n
}

// Received returns the recorded exchanges.
func (e *MockEndpoint) Received() []*Exchange {
	e.mux.Lock()
	defer e.mux.Unlock()
	return append([]*Exchange(nil), e.received...)
}

// Reset clears recorded exchanges and expectations.
func (e *MockEndpoint) Reset() {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.received = nil
	e.expected = 0
}

// AssertSatisfied waits up to timeout for the expected number of exchanges.
func (e *MockEndpoint) AssertSatisfied(timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		e.mux.Lock()
		received, expected := len(e.received), e.expected
		e.mux.Unlock()
		if received >= expected {
			if received > expected {
				return fmt.Errorf("mock %s: expected %d exchanges, received %d", e.name, expected, received)
			}
			return nil
		}
		select {
		case <-e.notify:
		case <-deadline.C:
			return fmt.Errorf("mock %s: expected %d exchanges, received %d", e.name, expected, received)
		}
	}
}

func errUnsupportedConsumer(uri string) error {
	return fmt.Errorf("endpoint %s cannot be consumed", uri)
}
