package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type continuation struct {
	ExecutionID string `json:"executionId"`
	ActivityID  string `json:"activityId"`
}

func newQueue(t *testing.T, name string) *Queue[continuation] {
	config := DefaultConfig()
	config.BasePath = "mem://localhost/flowbridge/queue/" + name
	config.MaxRetries = 1
	config.RetryDelay = 0
	config.PollInterval = 5 * time.Millisecond
	queue, err := NewQueue[continuation](afs.New(), config)
	require.NoError(t, err)
	return queue
}

func TestQueue_FIFO(t *testing.T) {
	queue := newQueue(t, "fifo")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, queue.Publish(ctx, &continuation{ExecutionID: id}))
		time.Sleep(time.Millisecond)
	}
	pending, err := queue.Count(ctx, MessageStatePending)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	for _, expect := range []string{"e1", "e2", "e3"} {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, expect, message.T().ExecutionID)
		require.NoError(t, message.Ack())
	}
	processing, err := queue.Count(ctx, MessageStateProcessing)
	require.NoError(t, err)
	assert.Equal(t, 0, processing)
}

func TestQueue_RetryAndDeadLetter(t *testing.T) {
	queue := newQueue(t, "retry")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &continuation{ExecutionID: "e1"}))
	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("first")))

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, message.(*Message[continuation]).Retries)
	require.NoError(t, message.Nack(errors.New("second")))

	dead, err := queue.Count(ctx, "dlq")
	require.NoError(t, err)
	assert.Equal(t, 1, dead)
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := newQueue(t, "empty")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewQueue_RequiresBasePath(t *testing.T) {
	_, err := NewQueue[continuation](afs.New(), Config{})
	assert.Error(t, err)
}
