package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	lastError  error
	mu         sync.Mutex
	processed  bool
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Attempts returns how many times the message has been redelivered.
func (m *Message[T]) Attempts() int {
	return m.retryCount
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack redelivers the message after RetryDelay until MaxRetries is exceeded,
// then moves it to the dead letter list when enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	m.lastError = err
	m.retryCount++

	if m.retryCount <= m.queue.config.MaxRetries {
		retry := &Message[T]{
			id:         m.id,
			payload:    m.payload,
			queue:      m.queue,
			retryCount: m.retryCount,
			lastError:  err,
		}
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			m.queue.redeliver(retry)
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	dlq      []*Message[T]
	config   Config
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue, blocking while the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("cannot publish nil payload")
	}
	msg := &Message[T]{
		id:      idgen.New(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue[T]) redeliver(msg *Message[T]) {
	q.messages <- msg
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

// DeadLetters returns the payloads and last errors of dead-lettered messages.
func (q *Queue[T]) DeadLetters() ([]T, []error) {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	payloads := make([]T, 0, len(q.dlq))
	errs := make([]error, 0, len(q.dlq))
	for _, msg := range q.dlq {
		payloads = append(payloads, msg.payload)
		errs = append(errs, msg.lastError)
	}
	return payloads, errs
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
