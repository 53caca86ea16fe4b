package unit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestion-agents/internal/gateway"
)

func receiveFrame(t *testing.T, client *gateway.Client) gateway.Frame {
	t.Helper()
	select {
	case frame, ok := <-client.Frames():
		require.True(t, ok, "send channel closed unexpectedly")
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return gateway.Frame{}
	}
}

func TestHub_PublishReachesEveryConnection(t *testing.T) {
	hub := gateway.NewHub(4)

	first := hub.Register("u1")
	second := hub.Register("u1")
	other := hub.Register("u2")
	defer hub.Unregister(other)

	hub.Publish("u1", gateway.Frame{Type: gateway.FrameTypeNotification, Payload: "a"})

	assert.Equal(t, "a", receiveFrame(t, first).Payload)
	assert.Equal(t, "a", receiveFrame(t, second).Payload)
	assert.Empty(t, other.Frames())

	hub.Unregister(first)
	hub.Unregister(second)
	assert.Equal(t, 0, hub.Connections("u1"))
}

func TestHub_PublishWithoutConnectionsIsANoOp(t *testing.T) {
	hub := gateway.NewHub(4)

	// Nothing registered for the recipient; the event stays in the
	// store for the next poll.
	hub.Publish("nobody", gateway.Frame{Type: gateway.FrameTypeNotification})

	assert.Equal(t, 0, hub.Connections("nobody"))
}

func TestHub_FramesAreFIFOPerConnection(t *testing.T) {
	hub := gateway.NewHub(8)
	client := hub.Register("u1")
	defer hub.Unregister(client)

	for i := 0; i < 5; i++ {
		hub.Publish("u1", gateway.Frame{Type: gateway.FrameTypeNotification, Payload: i})
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, i, receiveFrame(t, client).Payload)
	}
}

func TestHub_SlowClientIsDroppedNotWaitedOn(t *testing.T) {
	hub := gateway.NewHub(1)
	client := hub.Register("u1")

	// Fill the buffer, then publish once more without draining. The
	// second publish must return immediately and evict the client.
	hub.Publish("u1", gateway.Frame{Type: gateway.FrameTypeNotification, Payload: 1})

	done := make(chan struct{})
	go func() {
		hub.Publish("u1", gateway.Frame{Type: gateway.FrameTypeNotification, Payload: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}

	assert.Equal(t, 0, hub.Connections("u1"))

	// The queued frame is still readable, then the channel closes.
	assert.Equal(t, 1, receiveFrame(t, client).Payload)
	_, open := <-client.Frames()
	assert.False(t, open)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := gateway.NewHub(4)
	client := hub.Register("u1")

	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.Connections("u1"))
}
