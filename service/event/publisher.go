package event

import (
	"context"
	"sync/atomic"

	"github.com/viant/flowbridge/internal/clock"
	"github.com/viant/flowbridge/service/messaging"
)

// Publisher writes events to a typed queue and mirrors them to the catch-all
// queue. A queue receives events only while a listener consumes it.
type Publisher[T any] struct {
	queue     messaging.Queue[Event[T]]
	listening atomic.Bool
	anyQueue  messaging.Queue[Event[any]]
	anyActive *atomic.Bool
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.anyQueue != nil && p.anyActive != nil && p.anyActive.Load() {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	if !p.listening.Load() {
		return nil
	}
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

func (p *Publisher[T]) deactivate() {
	p.listening.Store(false)
}
