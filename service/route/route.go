package route

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/flowbridge/progress"
)

// Route is a started route definition.
type Route struct {
	ID       string
	From     string
	context  *Context
	consumer Consumer
	pipeline []Processor
	progress *progress.Progress
	mux      sync.Mutex
	started  bool
}

// Process runs the exchange through the pipeline. The reply of each step
// becomes the input of the next one; the last reply is kept on the exchange.
func (r *Route) Process(ctx context.Context, exchange *Exchange) (err error) {
	r.progress.Start()
	defer func() { r.progress.Finish(err) }()
	if _, ok := exchange.Property(PropertyFromEndpoint); !ok {
		exchange.SetProperty(PropertyFromEndpoint, r.From)
	}
	for i, processor := range r.pipeline {
		if i > 0 {
			exchange.advance()
		}
		if err = processor.Process(ctx, exchange); err != nil {
			exchange.Error = err.Error()
			return fmt.Errorf("route %s: %w", r.ID, err)
		}
	}
	return nil
}

func (r *Route) start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.started {
		return nil
	}
	if err := r.consumer.Start(ctx); err != nil {
		return err
	}
	r.started = true
	return nil
}

func (r *Route) stop() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if !r.started {
		return nil
	}
	r.started = false
	return r.consumer.Stop()
}

// Progress returns the exchange counters of the route.
func (r *Route) Progress() progress.Counters {
	return r.progress.Snapshot()
}
