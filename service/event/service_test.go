package event

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/messaging/fs"
	"github.com/viant/flowbridge/service/messaging/memory"
)

type processStarted struct {
	ID  string
	Key string
}

func TestService_Memory(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer srv.Shutdown()

	var mux sync.Mutex
	var typed []*Event[processStarted]
	var all []*Event[any]
	require.NoError(t, SetListenerOf[processStarted](srv, func(e *Event[processStarted]) {
		mux.Lock()
		typed = append(typed, e)
		mux.Unlock()
	}))
	srv.SetListener(func(e *Event[any]) {
		mux.Lock()
		all = append(all, e)
		mux.Unlock()
	})

	publisher, err := PublisherOf[processStarted](srv)
	require.NoError(t, err)
	again, err := PublisherOf[processStarted](srv)
	require.NoError(t, err)
	assert.Same(t, publisher, again)

	ctx := context.Background()
	eventContext := &Context{Type: TypeProcessStarted, ProcessInstanceID: "p1", DefinitionKey: "order"}
	require.NoError(t, publisher.Publish(ctx, NewEvent(eventContext, processStarted{ID: "p1", Key: "order"})))

	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(typed) == 1 && len(all) == 1
	}, time.Second, 10*time.Millisecond)
	mux.Lock()
	assert.Equal(t, "order", typed[0].Data.Key)
	assert.Equal(t, TypeProcessStarted, all[0].Context.Type)
	mux.Unlock()
}

func TestPublisher_WithoutListener(t *testing.T) {
	srv, err := New(messaging.VendorMemory, WithNewMemoryQueueConfig(func(string) memory.Config {
		cfg := memory.DefaultConfig()
		cfg.QueueBuffer = 1
		return cfg
	}))
	require.NoError(t, err)
	publisher, err := PublisherOf[processStarted](srv)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{Type: TypeProcessStarted}, processStarted{})))
	}
}

func TestService_FS(t *testing.T) {
	fsConfig := func(name string) fs.Config {
		cfg := fs.DefaultConfig()
		cfg.BasePath = "mem://localhost/flowbridge/events/" + name
		cfg.PollInterval = 5 * time.Millisecond
		return cfg
	}
	srv, err := New(messaging.VendorFS, WithNewFsQueueConfig(fsConfig), WithFS(afs.New()))
	require.NoError(t, err)
	defer srv.Shutdown()

	received := make(chan *Event[processStarted], 1)
	require.NoError(t, SetListenerOf[processStarted](srv, func(e *Event[processStarted]) {
		received <- e
	}))
	publisher, err := PublisherOf[processStarted](srv)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{Type: TypeProcessStarted, ProcessInstanceID: "p2"}, processStarted{ID: "p2"})))

	select {
	case e := <-received:
		assert.Equal(t, "p2", e.Data.ID)
		assert.Equal(t, "p2", e.Context.ProcessInstanceID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNew_UnsupportedVendor(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
	_, err = New(messaging.VendorFS)
	assert.Error(t, err)
}

func TestLogHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := LogHandler(logging.NewWithWriter(buf, "flowbridge", "test", logging.ParseLevel("info")))
	handler(NewEvent[any](&Context{Type: TypeTaskCreated, ProcessInstanceID: "p1", TaskID: "t1", ActivityID: "review"}, nil))
	handler(nil)
	assert.Contains(t, buf.String(), `"msg":"taskCreated"`)
	assert.Contains(t, buf.String(), `"task_id":"t1"`)
}
