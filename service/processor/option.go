package processor

import (
	"log/slog"

	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/repository"
)

type Option func(*Service)

// WithProcessDAO sets the process instance store
func WithProcessDAO(processDAO dao.Service[string, execution.ProcessInstance]) Option {
	return func(s *Service) {
		s.processDAO = processDAO
	}
}

// WithExecutionDAO sets the execution store
func WithExecutionDAO(executionDAO dao.Service[string, execution.Execution]) Option {
	return func(s *Service) {
		s.executionDAO = executionDAO
	}
}

// WithTaskDAO sets the user task store
func WithTaskDAO(taskDAO dao.Service[string, execution.Task]) Option {
	return func(s *Service) {
		s.taskDAO = taskDAO
	}
}

// WithRepository sets the definition repository
func WithRepository(repository *repository.Service) Option {
	return func(s *Service) {
		s.repository = repository
	}
}

// WithMessageQueue sets the async job queue
func WithMessageQueue(queue messaging.Queue[Job]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithEvents publishes lifecycle events through the supplied service
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithDelegate registers a service task delegate
func WithDelegate(taskType string, delegate Delegate) Option {
	return func(s *Service) {
		s.delegates[taskType] = delegate
	}
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.Workers = count
	}
}

// WithIDGenerator sets the id generator used for instances, executions and tasks
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
