package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	store.Store
	closed atomic.Bool
}

func (f *fakeStore) Close() error {
	f.closed.Store(true)
	return nil
}

func TestLazyConn_ConnectsOnce(t *testing.T) {
	var opens atomic.Int32
	st := &fakeStore{}
	release := make(chan struct{})

	conn := store.NewLazyConn(func(context.Context) (store.Store, error) {
		opens.Add(1)
		<-release
		return st, nil
	})

	var wg sync.WaitGroup
	got := make(chan store.Store, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := conn.Acquire(context.Background())
			if err == nil {
				got <- s
			}
		}()
	}
	close(release)
	wg.Wait()
	close(got)

	n := 0
	for s := range got {
		require.Same(t, st, s)
		n++
	}
	require.Equal(t, 8, n)
	require.Equal(t, int32(1), opens.Load())
}

func TestLazyConn_RetriesAfterFailure(t *testing.T) {
	var opens atomic.Int32
	st := &fakeStore{}

	conn := store.NewLazyConn(func(context.Context) (store.Store, error) {
		if opens.Add(1) == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return st, nil
	})

	_, err := conn.Acquire(context.Background())
	require.ErrorContains(t, err, "store: connect")

	s, err := conn.Acquire(context.Background())
	require.NoError(t, err)
	require.Same(t, st, s)
	require.Equal(t, int32(2), opens.Load())
}

func TestLazyConn_Close(t *testing.T) {
	st := &fakeStore{}
	conn := store.NewLazyConn(func(context.Context) (store.Store, error) { return st, nil })

	require.NoError(t, conn.Close(), "closing before connecting is a no-op")
	require.False(t, st.closed.Load())

	_, err := conn.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	require.True(t, st.closed.Load())
}
