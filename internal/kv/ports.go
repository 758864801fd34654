// Package kv defines the entity store the earnings engines persist through: a
// durable synchronous key-value map holding serialized records.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Ports for outbound adapters.
type (
	Reader interface {
		// Get returns the stored value, or ok=false when the key is absent.
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	}

	Writer interface {
		// Set overwrites the whole value stored under key.
		Set(ctx context.Context, key string, value []byte) error
		// Delete removes key. Deleting an absent key is not an error.
		Delete(ctx context.Context, key string) error
	}

	Store interface {
		Reader
		Writer
	}
)
