package route

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/messaging/memory"
)

const SchemeQueue = "queue"

// QueueFactory creates the messaging queue backing a queue endpoint name.
type QueueFactory func(name string) (messaging.Queue[Exchange], error)

// QueueComponent hands exchanges to a messaging queue; consumers process
// them asynchronously with a number of concurrent workers.
//
//	queue:orders?workers=2
type QueueComponent struct {
	factory QueueFactory
	mux     sync.Mutex
	queues  map[string]messaging.Queue[Exchange]
}

// NewQueueComponent creates a component; a nil factory uses memory queues.
func NewQueueComponent(factory QueueFactory) *QueueComponent {
	if factory == nil {
		factory = func(string) (messaging.Queue[Exchange], error) {
			return memory.NewQueue[Exchange](memory.DefaultConfig()), nil
		}
	}
	return &QueueComponent{factory: factory, queues: map[string]messaging.Queue[Exchange]{}}
}

func (q *QueueComponent) queue(name string) (messaging.Queue[Exchange], error) {
	q.mux.Lock()
	defer q.mux.Unlock()
	if queue, ok := q.queues[name]; ok {
		return queue, nil
	}
	queue, err := q.factory(name)
	if err != nil {
		return nil, err
	}
	q.queues[name] = queue
	return queue, nil
}

func (q *QueueComponent) CreateEndpoint(c *Context, uri, remaining string, params Params) (Endpoint, error) {
	if remaining == "" {
		return nil, fmt.Errorf("queue endpoint name is required")
	}
	workers, err := params.Int("workers", 1)
	if err != nil {
		return nil, err
	}
	queue, err := q.queue(remaining)
	if err != nil {
		return nil, err
	}
	return &queueEndpoint{uri: uri, queue: queue, workers: workers, context: c}, nil
}

type queueEndpoint struct {
	uri     string
	queue   messaging.Queue[Exchange]
	workers int
	context *Context
}

func (e *queueEndpoint) URI() string { return e.uri }

func (e *queueEndpoint) CreateProducer() (Processor, error) {
	return ProcessorFunc(func(ctx context.Context, exchange *Exchange) error {
		return e.queue.Publish(ctx, exchange.Clone())
	}), nil
}

func (e *queueEndpoint) CreateConsumer(processor Processor) (Consumer, error) {
	return &queueConsumer{endpoint: e, processor: processor}, nil
}

type queueConsumer struct {
	endpoint  *queueEndpoint
	processor Processor
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func (c *queueConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	for i := 0; i < c.endpoint.workers; i++ {
		c.wg.Add(1)
		go c.run(ctx)
	}
	return nil
}

func (c *queueConsumer) run(ctx context.Context) {
	defer c.wg.Done()
	logger := c.endpoint.context.logger
	for {
		msg, err := c.endpoint.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			logger.Warn("failed to consume exchange", logging.Endpoint(c.endpoint.uri), logging.Error(err))
			continue
		}
		exchange := msg.T()
		if err = c.processor.Process(ctx, exchange); err != nil {
			logger.Warn("exchange processing failed", logging.ExchangeID(exchange.ID), logging.Endpoint(c.endpoint.uri), logging.Error(err))
			_ = msg.Nack(err)
			continue
		}
		_ = msg.Ack()
	}
}

func (c *queueConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}
