package flowbridge

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/route"
	"github.com/viant/flowbridge/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service
type Option func(s *Service)

// WithConfig replaces the default configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithFS sets the file system used for definitions and fs stores
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithFSOptions sets storage options (for example an embed.FS) used when
// loading definitions
func WithFSOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = append(s.fsOptions, options...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProcessDAO sets the process instance store
func WithProcessDAO(dao dao.Service[string, execution.ProcessInstance]) Option {
	return func(s *Service) {
		s.processDAO = dao
	}
}

// WithExecutionDAO sets the execution store
func WithExecutionDAO(dao dao.Service[string, execution.Execution]) Option {
	return func(s *Service) {
		s.executionDAO = dao
	}
}

// WithTaskDAO sets the user task store
func WithTaskDAO(dao dao.Service[string, execution.Task]) Option {
	return func(s *Service) {
		s.taskDAO = dao
	}
}

// WithQueue sets the async job queue
func WithQueue(queue messaging.Queue[processor.Job]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithEventService sets the lifecycle event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithDelegate registers a service task implementation
func WithDelegate(taskType string, delegate processor.Delegate) Option {
	return func(s *Service) {
		s.delegates[taskType] = delegate
	}
}

// WithRouteOptions passes options to the route context
func WithRouteOptions(options ...route.Option) Option {
	return func(s *Service) {
		s.routeOptions = append(s.routeOptions, options...)
	}
}

// WithIDGenerator sets the generator of instance, execution and task ids
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter, for example
// OTLP or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
