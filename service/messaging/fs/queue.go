package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/flowbridge/internal/clock"
	"github.com/viant/flowbridge/internal/idgen"
	"github.com/viant/flowbridge/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateCompleted  MessageState = "completed"
	MessageStateFailed     MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	ID        string       `json:"id"`
	File      string       `json:"file"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the completed directory (or drops it when
// KeepCompleted is off)
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = clock.Now()
	return m.queue.complete(context.Background(), m)
}

// Nack moves the message to the failed directory for a delayed retry, or to
// the dead letter directory once MaxRetries is exceeded
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = clock.Now()
	return m.queue.fail(context.Background(), m)
}

// Config holds configuration for filesystem queue
type Config struct {
	BasePath      string        // Base directory (any afs URL) for queue files
	MaxRetries    int           // Maximum number of retry attempts
	RetryDelay    time.Duration // Minimum delay before a failed message is retried
	PollInterval  time.Duration // Delay between directory scans while the queue is empty
	KeepCompleted bool          // Keep acknowledged messages in the completed directory
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BasePath:     "/tmp/flowbridge/queue",
		MaxRetries:   3,
		RetryDelay:   time.Second,
		PollInterval: 50 * time.Millisecond,
	}
}

// Queue implements a filesystem based messaging.Queue. Each state has its
// own directory; file names start with a zero padded timestamp so that a
// lexical listing yields FIFO order.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	dlqDir        string
	mu            sync.Mutex
}

// NewQueue creates a new filesystem based queue
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    join(config.BasePath, "pending"),
		processingDir: join(config.BasePath, "processing"),
		completedDir:  join(config.BasePath, "completed"),
		failedDir:     join(config.BasePath, "failed"),
		dlqDir:        join(config.BasePath, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes a new message to the pending directory
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("cannot publish nil payload")
	}
	now := clock.Now()
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	message.File = fmt.Sprintf("%020d-%s.json", now.UnixNano(), message.ID)
	return q.write(ctx, join(q.pendingDir, message.File), message)
}

// Consume blocks until a retry-eligible failed message or a pending message
// is available, or ctx is done
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		message, err := q.next(ctx)
		if err != nil || message != nil {
			return message, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.config.PollInterval):
		}
	}
}

func (q *Queue[T]) next(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	failed, err := q.jsonObjects(ctx, q.failedDir)
	if err != nil {
		return nil, err
	}
	for _, object := range failed {
		message, err := q.read(ctx, object.URL())
		if err != nil {
			_ = q.fs.Move(ctx, object.URL(), join(q.dlqDir, "invalid-"+object.Name()))
			continue
		}
		if clock.Since(message.UpdatedAt) < q.config.RetryDelay {
			continue
		}
		return q.claim(ctx, object, message)
	}
	pending, err := q.jsonObjects(ctx, q.pendingDir)
	if err != nil {
		return nil, err
	}
	for _, object := range pending {
		message, err := q.read(ctx, object.URL())
		if err != nil {
			_ = q.fs.Move(ctx, object.URL(), join(q.failedDir, "invalid-"+object.Name()))
			continue
		}
		return q.claim(ctx, object, message)
	}
	return nil, nil
}

func (q *Queue[T]) claim(ctx context.Context, object storage.Object, message *Message[T]) (*Message[T], error) {
	message.State = MessageStateProcessing
	message.UpdatedAt = clock.Now()
	message.queue = q
	if err := q.write(ctx, join(q.processingDir, message.File), message); err != nil {
		return nil, fmt.Errorf("failed to move message %s to processing: %w", message.ID, err)
	}
	if err := q.fs.Delete(ctx, object.URL()); err != nil {
		return nil, fmt.Errorf("failed to remove claimed message %s: %w", message.ID, err)
	}
	return message, nil
}

func (q *Queue[T]) complete(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.config.KeepCompleted {
		if err := q.write(ctx, join(q.completedDir, m.File), m); err != nil {
			return fmt.Errorf("failed to write completed message %s: %w", m.ID, err)
		}
	}
	return q.removeProcessing(ctx, m)
}

func (q *Queue[T]) fail(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	target := join(q.failedDir, m.File)
	if m.Retries > q.config.MaxRetries {
		target = join(q.dlqDir, m.File)
	}
	if err := q.write(ctx, target, m); err != nil {
		return fmt.Errorf("failed to write failed message %s: %w", m.ID, err)
	}
	return q.removeProcessing(ctx, m)
}

func (q *Queue[T]) removeProcessing(ctx context.Context, m *Message[T]) error {
	processingPath := join(q.processingDir, m.File)
	if exists, _ := q.fs.Exists(ctx, processingPath); exists {
		if err := q.fs.Delete(ctx, processingPath); err != nil {
			return fmt.Errorf("failed to delete processing message %s: %w", m.ID, err)
		}
	}
	return nil
}

// Count returns the number of messages in the given state directory.
func (q *Queue[T]) Count(ctx context.Context, state MessageState) (int, error) {
	dir := map[MessageState]string{
		MessageStatePending:    q.pendingDir,
		MessageStateProcessing: q.processingDir,
		MessageStateCompleted:  q.completedDir,
		MessageStateFailed:     q.failedDir,
	}[state]
	if dir == "" {
		dir = q.dlqDir
	}
	objects, err := q.jsonObjects(ctx, dir)
	return len(objects), err
}

func (q *Queue[T]) jsonObjects(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var ret []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			ret = append(ret, object)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name() < ret[j].Name() })
	return ret, nil
}

func (q *Queue[T]) write(ctx context.Context, URL string, message *Message[T]) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", message.ID, err)
	}
	return q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return &message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// join keeps URL schemes such as mem:// intact, unlike path.Join.
func join(dir, name string) string {
	return strings.TrimRight(dir, "/") + "/" + name
}
