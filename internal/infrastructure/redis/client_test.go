package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Options{URL: "redis://" + s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClientAppliesPoolSettings(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Options{
		URL:          "redis://" + s.Addr() + "?pool_size=50",
		PoolSize:     4,
		MinIdleConns: 1,
		ReadTimeout:  750 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	opts := client.Options()
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
}

func TestNewClientKeepsURLSettingsForZeroOptions(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Options{URL: "redis://" + s.Addr() + "?pool_size=9"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 9, client.Options().PoolSize)
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), Options{URL: "://bad-url"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	_, err := NewClient(context.Background(), Options{URL: url, DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "ping redis")
}
