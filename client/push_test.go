package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconnectDelaySchedule(t *testing.T) {
	// First retry is immediate, then the delay doubles up to the ceiling.
	assert.Equal(t, time.Duration(0), reconnectDelay(1))
	assert.Equal(t, 1*time.Second, reconnectDelay(2))
	assert.Equal(t, 2*time.Second, reconnectDelay(3))
	assert.Equal(t, 4*time.Second, reconnectDelay(4))
	assert.Equal(t, 8*time.Second, reconnectDelay(5))
	assert.Equal(t, 16*time.Second, reconnectDelay(6))
	assert.Equal(t, 30*time.Second, reconnectDelay(7))
	assert.Equal(t, 30*time.Second, reconnectDelay(20))
}

func TestPushListener_WatcherExitsWithConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	listener := NewPushListener(url, NewReconciler(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := runtime.NumGoroutine()

	// Cycle through many short-lived connections, each dropped by the
	// server. The per-connection watcher must exit when its read loop
	// returns, not stay parked until the context is cancelled.
	for i := 0; i < 25; i++ {
		conn, _, err := listener.dialer.DialContext(ctx, url, nil)
		require.NoError(t, err)
		listener.readLoop(ctx, conn)
		conn.Close()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+3
	}, 2*time.Second, 10*time.Millisecond, "watcher goroutines accumulated across dropped connections")
}
