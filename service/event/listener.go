package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/viant/flowbridge/internal/logging"
)

type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *slog.Logger) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = logging.Discard()
	}
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop cancels consumption and waits for the loop to exit.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}

func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || l.ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to consume event", logging.Error(err))
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}

// LogHandler returns a handler writing every event to logger.
func LogHandler(logger *slog.Logger) func(*Event[any]) {
	return func(event *Event[any]) {
		if event == nil || event.Context == nil {
			return
		}
		c := event.Context
		attrs := []any{logging.ProcessID(c.ProcessInstanceID)}
		if c.DefinitionKey != "" {
			attrs = append(attrs, logging.ProcessKey(c.DefinitionKey))
		}
		if c.ExecutionID != "" {
			attrs = append(attrs, logging.ExecutionID(c.ExecutionID))
		}
		if c.ActivityID != "" {
			attrs = append(attrs, logging.ActivityID(c.ActivityID))
		}
		if c.TaskID != "" {
			attrs = append(attrs, logging.TaskID(c.TaskID))
		}
		logger.Info(string(c.Type), attrs...)
	}
}
