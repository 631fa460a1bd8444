package flowbridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/flowbridge/editor/converter"
	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/bridge"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/dao/definition"
	efs "github.com/viant/flowbridge/service/dao/execution/fs"
	ememory "github.com/viant/flowbridge/service/dao/execution/memory"
	pfs "github.com/viant/flowbridge/service/dao/process/fs"
	pmemory "github.com/viant/flowbridge/service/dao/process/memory"
	tfs "github.com/viant/flowbridge/service/dao/task/fs"
	tmemory "github.com/viant/flowbridge/service/dao/task/memory"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/messaging"
	mfs "github.com/viant/flowbridge/service/messaging/fs"
	mmemory "github.com/viant/flowbridge/service/messaging/memory"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/repository"
	"github.com/viant/flowbridge/service/route"
)

// Service wires the process engine, the route context and the flow bridge.
type Service struct {
	config       *Config
	fs           afs.Service
	fsOptions    []storage.Option
	logger       *slog.Logger
	processDAO   dao.Service[string, execution.ProcessInstance]
	executionDAO dao.Service[string, execution.Execution]
	taskDAO      dao.Service[string, execution.Task]
	queue        messaging.Queue[processor.Job]
	events       *event.Service
	ownEvents    bool
	delegates    map[string]processor.Delegate
	routeOptions []route.Option
	newID        func() string

	repository  *repository.Service
	definitions *definition.Service
	converter   *converter.Converter
	processor   *processor.Service
	routes      *route.Context
	bridge      *bridge.Component
	runtime     *Runtime
	tasks       *TaskService
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	var err error
	s.processor, err = processor.New(
		processor.WithConfig(s.config.Processor),
		processor.WithRepository(s.repository),
		processor.WithMessageQueue(s.queue),
		processor.WithProcessDAO(s.processDAO),
		processor.WithExecutionDAO(s.executionDAO),
		processor.WithTaskDAO(s.taskDAO),
		processor.WithEvents(s.events),
		processor.WithIDGenerator(s.newID),
		processor.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}
	if s.bridge, err = bridge.New(s.processor, s.repository,
		bridge.WithConfig(s.config.Bridge), bridge.WithLogger(s.logger)); err != nil {
		return fmt.Errorf("failed to create flow component: %w", err)
	}
	routeOptions := append([]route.Option{
		route.WithLogger(s.logger),
		route.WithComponent(route.SchemeQueue, route.NewQueueComponent(s.routeQueueFactory())),
		route.WithComponent(bridge.Scheme, s.bridge),
	}, s.routeOptions...)
	s.routes = route.NewContext(routeOptions...)
	s.processor.RegisterDelegate(bridge.DelegateRoute, s.bridge.Delegate(s.routes))
	for taskType, delegate := range s.delegates {
		s.processor.RegisterDelegate(taskType, delegate)
	}
	s.runtime = &Runtime{service: s}
	s.tasks = &TaskService{processor: s.processor}
	if s.config.Definitions != "" {
		if _, err = s.runtime.LoadDefinitions(context.Background(), s.config.Definitions); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureBaseSetup() (err error) {
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.logger == nil {
		s.logger = logging.New(s.config.Log.Service, s.config.Log.Version, s.config.Log.Level)
	}
	if s.newID == nil {
		s.newID = idgen.New
	}
	if s.config.Tracing.Enabled {
		WithTracing(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.OutputFile)(s)
	}
	s.repository = repository.New()
	s.definitions = definition.New(definition.WithFS(s.fs), definition.WithFSOptions(s.fsOptions...))
	s.converter = converter.New(nil)

	store := s.config.Store
	if s.processDAO == nil {
		if store.Vendor == messaging.VendorFS {
			if s.processDAO, err = pfs.New(s.fs, store.BaseURL, s.logger); err != nil {
				return err
			}
		} else {
			s.processDAO = pmemory.New()
		}
	}
	if s.executionDAO == nil {
		if store.Vendor == messaging.VendorFS {
			if s.executionDAO, err = efs.New(s.fs, store.BaseURL, s.logger); err != nil {
				return err
			}
		} else {
			s.executionDAO = ememory.New()
		}
	}
	if s.taskDAO == nil {
		if store.Vendor == messaging.VendorFS {
			if s.taskDAO, err = tfs.New(s.fs, store.BaseURL, s.logger); err != nil {
				return err
			}
		} else {
			s.taskDAO = tmemory.New()
		}
	}
	if s.queue == nil {
		if s.queue, err = newQueue[processor.Job](s.fs, s.config.Queue, "jobs"); err != nil {
			return err
		}
	}
	if s.events == nil && s.config.Events.Enabled {
		if s.events, err = s.newEvents(); err != nil {
			return err
		}
		s.ownEvents = true
		s.events.SetListener(event.LogHandler(s.logger))
	}
	return nil
}

func (s *Service) newEvents() (*event.Service, error) {
	config := s.config.Events
	options := []event.Option{event.WithLogger(s.logger), event.WithFS(s.fs)}
	if config.Vendor == messaging.VendorFS {
		queueConfig := s.config.Queue
		options = append(options, event.WithNewFsQueueConfig(func(name string) mfs.Config {
			ret := mfs.DefaultConfig()
			ret.BasePath = url.Join(config.BaseURL, "events", name)
			if queueConfig.PollInterval > 0 {
				ret.PollInterval = queueConfig.PollInterval
			}
			return ret
		}))
	}
	return event.New(config.Vendor, options...)
}

func (s *Service) routeQueueFactory() route.QueueFactory {
	return func(name string) (messaging.Queue[route.Exchange], error) {
		return newQueue[route.Exchange](s.fs, s.config.Queue, url.Join("route", name))
	}
}

// newQueue creates a queue of the configured vendor; fs queues live under
// BaseURL/name.
func newQueue[T any](fs afs.Service, config QueueConfig, name string) (messaging.Queue[T], error) {
	if config.Vendor != messaging.VendorFS {
		memConfig := mmemory.DefaultConfig()
		memConfig.MaxRetries = config.MaxRetries
		if config.RetryDelay > 0 {
			memConfig.RetryDelay = config.RetryDelay
		}
		return mmemory.NewQueue[T](memConfig), nil
	}
	fsConfig := mfs.DefaultConfig()
	fsConfig.BasePath = url.Join(config.BaseURL, name)
	fsConfig.MaxRetries = config.MaxRetries
	if config.RetryDelay > 0 {
		fsConfig.RetryDelay = config.RetryDelay
	}
	if config.PollInterval > 0 {
		fsConfig.PollInterval = config.PollInterval
	}
	queue, err := mfs.NewQueue[T](fs, fsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s queue: %w", name, err)
	}
	return queue, nil
}

// Runtime returns the process runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Tasks returns the user task service
func (s *Service) Tasks() *TaskService {
	return s.tasks
}

// Routes returns the route context with the flow component registered
func (s *Service) Routes() *route.Context {
	return s.routes
}

// Bridge returns the flow component
func (s *Service) Bridge() *bridge.Component {
	return s.bridge
}

// Converter returns the editor JSON converter
func (s *Service) Converter() *converter.Converter {
	return s.converter
}

// Repository returns the definition repository
func (s *Service) Repository() *repository.Service {
	return s.repository
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), delegates: map[string]processor.Delegate{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
