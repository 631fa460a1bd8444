package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequential(t *testing.T) {
	next := Sequential("task")
	assert.Equal(t, "task-1", next())
	assert.Equal(t, "task-2", next())
}

func TestNew(t *testing.T) {
	assert.NotEqual(t, New(), New())
}
