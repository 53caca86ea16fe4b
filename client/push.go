package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/domain"
)

const (
	// Reconnect policy: first retry is immediate, then the delay doubles
	// from reconnectBaseDelay up to reconnectMaxDelay. After
	// reconnectMaxAttempts consecutive failures the push channel is
	// abandoned and the client runs poll-only.
	reconnectBaseDelay   = 1 * time.Second
	reconnectMaxDelay    = 30 * time.Second
	reconnectMaxAttempts = 8
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PushListener supplements polling with low-latency delivery over the
// WebSocket channel. Everything it receives funnels into the same
// reconciler, so a notification seen on both paths still presents once.
type PushListener struct {
	url        string
	reconciler *Reconciler
	dialer     *websocket.Dialer
}

// NewPushListener takes the full connection URL, token parameter
// included (ws://host/ws/notifications?token=...).
func NewPushListener(url string, reconciler *Reconciler) *PushListener {
	return &PushListener{
		url:        url,
		reconciler: reconciler,
		dialer:     websocket.DefaultDialer,
	}
}

// Run keeps a connection open until the context is cancelled or the
// reconnect budget is spent. Abandoning push is not an error condition:
// polling still delivers everything, so Run simply returns.
func (l *PushListener) Run(ctx context.Context) {
	attempts := 0

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			attempts++
			if attempts >= reconnectMaxAttempts {
				log.Warn().Int("attempts", attempts).Msg("push channel abandoned, falling back to poll-only")
				return
			}
			delay := reconnectDelay(attempts)
			log.Debug().Err(err).Dur("retry_in", delay).Msg("push connect failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			continue
		}

		attempts = 0
		l.readLoop(ctx, conn)
		conn.Close()
	}
}

func (l *PushListener) readLoop(ctx context.Context, conn *websocket.Conn) {
	// The watcher unblocks ReadJSON on cancellation and exits with the
	// read loop, so a dropped connection does not leave it parked.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() == nil {
				log.Debug().Err(err).Msg("push connection dropped")
			}
			return
		}

		switch f.Type {
		case "notification":
			var notif domain.Notification
			if err := json.Unmarshal(f.Payload, &notif); err != nil {
				log.Debug().Err(err).Msg("malformed notification frame")
				continue
			}
			l.reconciler.Reconcile([]domain.Notification{notif})
		default:
			// Unknown frame types (including pings) are ignored, never
			// treated as fatal.
		}
	}
}

// reconnectDelay returns the wait before the given retry attempt.
// Attempt 1 retries immediately; later attempts double from the base
// delay up to the ceiling.
func reconnectDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	delay := reconnectBaseDelay << (attempt - 2)
	if delay > reconnectMaxDelay || delay <= 0 {
		return reconnectMaxDelay
	}
	return delay
}
