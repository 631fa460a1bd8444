package progress

import (
	"sync"
	"time"

	"github.com/viant/flowbridge/internal/clock"
)

// Delta represents an incremental counter change. The fields are signed so a
// single delta can both start and finish an exchange.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	InFlight  int
}

// Counters is a point in time copy of route progress.
type Counters struct {
	RouteID   string    `json:"routeId"`
	From      string    `json:"from"`
	StartedAt time.Time `json:"startedAt"`

	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Failed    int        `json:"failed"`
	InFlight  int        `json:"inFlight"`
	LastAt    *time.Time `json:"lastAt,omitempty"`
}

// Progress keeps the exchange counters of one route.
type Progress struct {
	mux      sync.Mutex
	counters Counters
	onChange func(Counters)
}

// New creates a tracker for a route.
func New(routeID, from string) *Progress {
	return &Progress{counters: Counters{RouteID: routeID, From: from, StartedAt: clock.Now()}}
}

// Update applies d. The onChange callback, if any, receives the updated
// counters outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.counters.Total += d.Total
	p.counters.Completed += d.Completed
	p.counters.Failed += d.Failed
	p.counters.InFlight += d.InFlight
	now := clock.Now()
	p.counters.LastAt = &now
	snapshot := p.counters
	callback := p.onChange
	p.mux.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// Start records an exchange entering the route.
func (p *Progress) Start() {
	p.Update(Delta{Total: 1, InFlight: 1})
}

// Finish records an exchange leaving the route.
func (p *Progress) Finish(err error) {
	if err != nil {
		p.Update(Delta{Failed: 1, InFlight: -1})
		return
	}
	p.Update(Delta{Completed: 1, InFlight: -1})
}

// Snapshot returns the current counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(callback func(Counters)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = callback
	p.mux.Unlock()
}
