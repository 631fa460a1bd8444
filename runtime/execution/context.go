package execution

import (
	"context"
	"reflect"
)

// ContextValue returns the value of the provided type from the context.
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		if typed, ok := value.(T); ok {
			return typed
		}
	}
	var t T
	return t
}

// WithValue stores value in the context under its type key.
func WithValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, KeyOf[T](), value)
}

// KeyOf returns the reflect.Type of the provided type.
func KeyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
