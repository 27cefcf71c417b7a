package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Total   int
	Matched int
	Rows    []string
}

func TestLocalCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewCache(ctx, "", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	want := summary{Total: 3, Matched: 2, Rows: []string{"a", "b"}}
	require.NoError(t, c.Set(ctx, "audit:abc", want, 10*time.Minute))

	var got summary
	require.NoError(t, c.Get(ctx, "audit:abc", &got))
	assert.Equal(t, want, got)

	var missing summary
	assert.ErrorIs(t, c.Get(ctx, "audit:none", &missing), ErrMiss)

	require.NoError(t, c.Delete(ctx, "audit:abc"))
	assert.ErrorIs(t, c.Get(ctx, "audit:abc", &got), ErrMiss)
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	c, err := NewCache(ctx, mr.Addr(), time.Minute)
	require.NoError(t, err)
	defer c.Close()

	want := summary{Total: 1}
	require.NoError(t, c.Set(ctx, "dates:xyz", want, time.Hour))
	assert.True(t, mr.Exists("dates:xyz"))

	// A second instance shares the redis level but not the local one.
	other, err := NewCache(ctx, "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	defer other.Close()

	var got summary
	require.NoError(t, other.Get(ctx, "dates:xyz", &got))
	assert.Equal(t, want, got)
}

func TestNewCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewCache(ctx, addr, time.Minute)
	assert.Error(t, err)
}

func TestRedisCache_DeleteError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute)

	mock.ExpectDel("audit:abc").SetErr(errors.New("connection reset"))
	err := c.Delete(context.Background(), "audit:abc")
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
