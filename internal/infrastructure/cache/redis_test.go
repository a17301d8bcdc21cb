package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SelectsDB(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := Open(context.Background(), Options{Addr: s.Addr(), DB: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, 2, c.Options().DB)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "loan", "pending", 0).Err())
	s.Select(2)
	got, err := s.Get("loan")
	require.NoError(t, err)
	assert.Equal(t, "pending", got)
}

func TestOpen_Unreachable(t *testing.T) {
	// unresolvable host fails without waiting for the timeout
	_, err := Open(context.Background(), Options{Addr: "not-a-real-host:6379", PingTimeout: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping not-a-real-host:6379")
}

func TestCheck(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := Open(context.Background(), Options{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	check := Check(c)
	assert.NoError(t, check(context.Background()))

	s.Close()
	assert.Error(t, check(context.Background()))
}
