package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier. Override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Sequential returns a generator producing prefix-1, prefix-2, ... It is
// meant to replace NewFunc in tests that assert on identifiers.
func Sequential(prefix string) func() string {
	var counter int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&counter, 1))
	}
}
