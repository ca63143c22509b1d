package store

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/profiles/pkg/syncx"
)

// Conn hands out the process-wide Store, connecting on first use.
type Conn interface {
	Acquire(ctx context.Context) (Store, error)
}

// Opener connects to a database and returns a ready Store.
type Opener func(ctx context.Context) (Store, error)

// LazyConn connects once and then reuses the Store. Concurrent first callers
// wait on the same attempt. A failed attempt is retried by the next caller.
type LazyConn struct {
	cell *syncx.Lazy[Store]
}

var _ Conn = (*LazyConn)(nil)

func NewLazyConn(open Opener) *LazyConn {
	return &LazyConn{cell: syncx.NewLazy(func(ctx context.Context) (Store, error) {
		st, err := open(ctx)
		if err != nil {
			return nil, fmt.Errorf("store: connect: %w", err)
		}
		return st, nil
	})}
}

func (c *LazyConn) Acquire(ctx context.Context) (Store, error) {
	return c.cell.Get(ctx)
}

// Close closes the Store if a connection was ever made.
func (c *LazyConn) Close() error {
	if st, ok := c.cell.Peek(); ok {
		return st.Close()
	}
	return nil
}
