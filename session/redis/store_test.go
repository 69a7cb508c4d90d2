package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/session"
)

func newTestStore(t *testing.T, opts ...session.Option) (session.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	opts = append([]session.Option{session.WithLocation("redis://" + mr.Addr())}, opts...)
	s := NewStore(opts...)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestRoundTrip(t *testing.T) {
	s, mr := newTestStore(t, session.WithTTL(time.Minute))
	ctx := context.Background()

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionId)

	_, err = s.Update(ctx, "s1", func(c *session.Context) error {
		c.City = "Bình Định"
		c.LastEntityName = "Eo Gió"
		return nil
	})
	require.NoError(t, err)

	got, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bình Định", got.City)
	assert.Equal(t, "Eo Gió", got.LastEntityName)

	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"s1"))
}

func TestTTLExpiry(t *testing.T) {
	s, mr := newTestStore(t, session.WithTTL(time.Minute))
	ctx := context.Background()

	_, err := s.Update(ctx, "s1", func(c *session.Context) error {
		c.City = "Lào Cai"
		return nil
	})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.City)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mtx sync.Mutex
	failures := 0

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "shared", func(c *session.Context) error {
				c.TurnCount++
				return nil
			})
			if err != nil {
				mtx.Lock()
				failures++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 5-failures, got.TurnCount)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "s1", func(c *session.Context) error {
		c.City = "Huế"
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "s1"))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.City)
}
