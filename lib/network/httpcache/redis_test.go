package httpcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var _ Adapter = (*RedisCacheAdapter)(nil)
var _ Purger = (*RedisCacheAdapter)(nil)

type testGeneration struct {
	n   int64
	err error
}

func (g *testGeneration) Current() (int64, error) {
	return g.n, g.err
}

func (g *testGeneration) Next() (int64, error) {
	if g.err != nil {
		return 0, g.err
	}
	g.n++
	return g.n, nil
}

func newTestRedisCacheAdapter() *RedisCacheAdapter {
	return NewRedisCacheAdapter(&RedisRingOptions{
		Addrs: map[string]string{
			"server": ":6379",
		},
	})
}

func TestRedisAdapter(t *testing.T) {
	a := newTestRedisCacheAdapter()

	tests := []struct {
		name     string
		key      string
		response *Response
	}{
		{
			name: "set response",
			key:  "test1",
			response: &Response{
				Value:      []byte("value 1"),
				Expiration: time.Now().Add(1 * time.Minute),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Set(tt.key, tt.response, time.Now().Add(1*time.Minute))
		})
	}
}

func TestRedisAdapterPurge(t *testing.T) {
	a := newTestRedisCacheAdapter()
	a.generation = &testGeneration{}

	key := "/api/v1/polls/p1"
	before, ok := a.key(key)
	require.True(t, ok)

	// a purged response is stored under the older generation and can not
	// be found anymore.
	a.Purge()
	after, ok := a.key(key)
	require.True(t, ok)
	require.NotEqual(t, before, after)

	a.Purge()
	again, _ := a.key(key)
	require.NotEqual(t, after, again)
}

func TestRedisAdapterWithoutGeneration(t *testing.T) {
	a := newTestRedisCacheAdapter()
	a.generation = &testGeneration{err: fmt.Errorf("connection refused")}

	_, ok := a.key("/api/v1/polls/p1")
	require.False(t, ok)

	_, found := a.Get("/api/v1/polls/p1")
	require.False(t, found)
}
