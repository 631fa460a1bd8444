// Package messaging defines the queue abstraction used for async
// continuations, lifecycle events and queue route endpoints.
package messaging

import (
	"context"
)

// Vendor represents the name of a queue implementation.
type Vendor string

const (
	VendorMemory Vendor = "memory"
	VendorFS     Vendor = "fs"
)

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message; the queue decides
	// whether to redeliver or dead-letter it
	Nack(err error) error
}
