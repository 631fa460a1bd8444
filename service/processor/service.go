package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/event"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/repository"
	"github.com/viant/flowbridge/tracing"
)

// Config represents processor configuration
type Config struct {
	// Workers is the number of goroutines consuming async jobs
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// MaxRetries is the number of times a failed async job is retried
	MaxRetries int `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`

	// RetryDelay is the delay between job retry attempts
	RetryDelay time.Duration `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{
		Workers:    2,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Service moves process instances through their definitions
type Service struct {
	config       Config
	repository   *repository.Service
	processDAO   dao.Service[string, execution.ProcessInstance]
	executionDAO dao.Service[string, execution.Execution]
	taskDAO      dao.Service[string, execution.Task]
	queue        messaging.Queue[Job]
	events       *event.Service
	logger       *slog.Logger
	newID        func() string

	delegates   map[string]Delegate
	delegateMux sync.RWMutex
	locks       *locks

	workers  []*worker
	workerWg sync.WaitGroup
	retryWg  sync.WaitGroup
	mux      sync.Mutex
	running  bool
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a processor
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:    DefaultConfig(),
		delegates: map[string]Delegate{DelegateVariables: DelegateFunc(setVariables)},
		locks:     newLocks(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("message queue is required")
	}
	if s.processDAO == nil {
		return nil, fmt.Errorf("processDAO service is required")
	}
	if s.executionDAO == nil {
		return nil, fmt.Errorf("executionDAO service is required")
	}
	if s.taskDAO == nil {
		return nil, fmt.Errorf("taskDAO service is required")
	}
	if s.newID == nil {
		s.newID = idgen.New
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s, nil
}

// Start launches the async job workers
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	for i := 0; i < s.config.Workers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{id: i, service: s, ctx: workerCtx, cancelFn: cancel}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// Shutdown stops the workers and waits for in-flight jobs
func (s *Service) Shutdown() {
	s.mux.Lock()
	workers := s.workers
	s.workers = nil
	s.running = false
	s.mux.Unlock()
	for _, w := range workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
	s.retryWg.Wait()
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if w.ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.service.logger.Warn("failed to consume job", slog.Int("worker", w.id), logging.Error(err))
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		if err = w.service.processMessage(w.ctx, msg); err != nil {
			w.service.logger.Error("failed to process job", slog.Int("worker", w.id), logging.Error(err))
		}
	}
}

func (s *Service) processMessage(ctx context.Context, message messaging.Message[Job]) (err error) {
	job := message.T()
	ctx, span := tracing.StartSpan(ctx, "processor.job "+job.ActivityID, tracing.KindConsumer)
	span.WithAttributes(map[string]string{"process.instance.id": job.ProcessInstanceID, "execution.id": job.ExecutionID})
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.resume(ctx, job); err != nil {
		return message.Nack(err)
	}
	return message.Ack()
}

// resume continues a scheduled execution. Failures are retried up to
// MaxRetries; after that the instance fails.
func (s *Service) resume(ctx context.Context, job *Job) error {
	return s.withInstance(ctx, job.ProcessInstanceID, func(op *operation) error {
		exec, err := s.executionDAO.Load(ctx, job.ExecutionID)
		if err != nil {
			return err
		}
		if exec.State != execution.StateScheduled {
			return nil
		}
		if err = s.open(ctx, op, job.ProcessInstanceID); err != nil {
			return err
		}
		if op.instance.State.IsFinished() {
			return nil
		}
		exec.MoveTo(exec.ActivityID)
		runErr := s.run(ctx, op, exec, true)
		if runErr == nil {
			return s.finish(ctx, op)
		}
		exec.Attempts++
		if exec.Attempts <= s.config.MaxRetries {
			s.logger.Warn("retrying job",
				logging.ProcessID(job.ProcessInstanceID), logging.ActivityID(job.ActivityID),
				slog.Int("attempt", exec.Attempts), logging.Error(runErr))
			exec.Schedule()
			if err = s.executionDAO.Save(ctx, exec); err != nil {
				return err
			}
			s.retryLater(job)
			return nil
		}
		return s.fail(ctx, op, exec, runErr)
	})
}

func (s *Service) retryLater(job *Job) {
	s.retryWg.Add(1)
	time.AfterFunc(s.config.RetryDelay, func() {
		defer s.retryWg.Done()
		retry := *job
		if err := s.queue.Publish(context.Background(), &retry); err != nil {
			s.logger.Error("failed to reschedule job", logging.ProcessID(job.ProcessInstanceID), logging.Error(err))
		}
	})
}
