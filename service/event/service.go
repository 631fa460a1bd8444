// Package event publishes process lifecycle events to typed queues.
package event

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/viant/afs"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/messaging/fs"
	"github.com/viant/flowbridge/service/messaging/memory"
)

type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	anyActive         atomic.Bool
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]stopper
	mux               *sync.RWMutex
	queueVendor       messaging.Vendor
	fs                afs.Service
	logger            *slog.Logger
	fsNewQueueConfig  func(name string) fs.Config
	memNewQueueConfig func(name string) memory.Config
}

type stopper interface{ Stop() }

// SetListener consumes every event published through any typed publisher.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.anyActive.Store(true)
	s.listener.Start()
}

// Shutdown stops all listeners.
func (s *Service) Shutdown() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.anyActive.Store(false)
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, listener := range s.typedListener {
		listener.Stop()
		delete(s.typedListener, key)
	}
	for _, publisher := range s.typedPublishers {
		if aware, ok := publisher.(interface{ deactivate() }); ok {
			aware.deactivate()
		}
	}
}

func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]stopper),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logging.Discard()
	}
	switch queueVendor {
	case messaging.VendorFS:
		if ret.fsNewQueueConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires fsNewQueueConfig")
		}
		if ret.fs == nil {
			ret.fs = afs.New()
		}
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}

	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	ret.publisher.listening.Store(true)
	return ret, nil
}

func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorFS:
		return fs.NewQueue[T](s.fs, s.fsNewQueueConfig(name))
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	rType := reflect.TypeOf((*T)(nil)).Elem()
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf consumes events of type T.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if previous, ok := s.typedListener[key]; ok {
		previous.Stop()
	}
	listener := NewListener[T](publisher, handler, s.logger)
	s.typedListener[key] = listener
	publisher.listening.Store(true)
	listener.Start()
	return nil
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T]), nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.anyQueue = s.publisher.queue
	publisher.anyActive = &s.anyActive
	s.typedPublishers[key] = publisher
	return publisher, nil
}
