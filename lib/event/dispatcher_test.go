package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common/observer"
	"boscoin.io/ballotbox/lib/contract/payload"
)

func TestEventKey(t *testing.T) {
	code := &payload.ExecCode{ContractAddress: "poll", Method: "instantiate"}
	resp := payload.NewResponse().AddAttribute("action", "instantiate")

	e := NewEvent("sender", code, resp)
	require.Equal(t, "poll", e.Key())
	require.NotEmpty(t, e.ID)

	resp.AddAttribute("poll_id", "p1")
	e = NewEvent("sender", code, resp)
	require.Equal(t, "p1", e.Key())
}

func TestEventHash(t *testing.T) {
	code := &payload.ExecCode{ContractAddress: "poll", Method: "vote"}
	resp := payload.NewResponse().AddAttribute("action", "vote").AddAttribute("poll_id", "p1")

	e0 := NewEvent("sender", code, resp)
	e1 := NewEvent("sender", code, resp)
	require.NotEqual(t, e0.ID, e1.ID)
	require.Len(t, e0.Hash, 64)
	require.Equal(t, e0.Hash, e1.Hash)

	// another sender
	e2 := NewEvent("other", code, resp)
	require.NotEqual(t, e0.Hash, e2.Hash)

	// another result
	resp.AddAttribute("option", "yes")
	e3 := NewEvent("sender", code, resp)
	require.NotEqual(t, e0.Hash, e3.Hash)
}

func TestDispatcher(t *testing.T) {
	publisher := NewMemoryPublisher()
	d := NewDispatcher(publisher, "test", 10)
	d.Subscribe()
	defer d.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- d.Run(ctx)
	}()

	code := &payload.ExecCode{ContractAddress: "poll", Method: "vote"}
	resp := payload.NewResponse().AddAttribute("action", "vote").AddAttribute("poll_id", "p1")
	observer.ContractObserver.Trigger("contract-*", "sender", code, resp)

	deadline := time.Now().Add(time.Second)
	for len(publisher.Events()) < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, len(publisher.Events()))

	e := publisher.Events()[0]
	require.Equal(t, "vote", e.Method)
	require.Equal(t, "sender", e.Sender)
	require.Equal(t, "p1", e.Key())

	cancel()
	require.NoError(t, <-done)
}

func TestDispatcherFlushOnStop(t *testing.T) {
	publisher := NewMemoryPublisher()
	d := NewDispatcher(publisher, "test", 10)

	code := &payload.ExecCode{ContractAddress: "poll", Method: "vote"}
	for i := 0; i < 3; i++ {
		d.enqueue("sender", code, payload.NewResponse())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))

	require.Equal(t, 3, len(publisher.Events()))
}

func TestDispatcherQueueFull(t *testing.T) {
	publisher := NewMemoryPublisher()
	d := NewDispatcher(publisher, "test", 1)

	code := &payload.ExecCode{ContractAddress: "poll", Method: "vote"}
	d.enqueue("sender", code, payload.NewResponse())
	d.enqueue("sender", code, payload.NewResponse())

	require.Equal(t, 1, len(d.queue))
}
