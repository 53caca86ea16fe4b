package handler

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/gateway"
	"gestion-agents/internal/service/auth"
)

const wsUserIDKey = "ws_user_id"

// StreamHandler owns the push channel: one WebSocket connection per
// browser tab, bound to the authenticated recipient.
type StreamHandler struct {
	authService auth.Service
	hub         *gateway.Hub
	pingPeriod  time.Duration
}

func NewStreamHandler(authService auth.Service, hub *gateway.Hub, pingPeriod time.Duration) *StreamHandler {
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	return &StreamHandler{
		authService: authService,
		hub:         hub,
		pingPeriod:  pingPeriod,
	}
}

// Upgrade authenticates the handshake before the protocol switch. The
// credential rides in the token query parameter because browsers cannot
// set headers on WebSocket dials. A bad credential is terminal: the
// server never retries, reconnecting is the client's business.
func (h *StreamHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := h.authService.ValidateAccessToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "Invalid or missing token",
		})
	}

	c.Locals(wsUserIDKey, claims.UserID.String())
	return c.Next()
}

// Stream pumps frames from the hub to the socket. Inbound messages are
// only read to detect the close; their content is discarded.
func (h *StreamHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(wsUserIDKey).(string)
		if !ok {
			conn.Close()
			return
		}

		client := h.hub.Register(userID)
		defer h.hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(h.pingPeriod)
		defer ping.Stop()

		for {
			select {
			case frame, open := <-client.Frames():
				if !open {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					log.Debug().Err(err).Str("user_id", userID).Msg("push write failed")
					return
				}
			case <-ping.C:
				if err := conn.WriteJSON(gateway.Frame{Type: gateway.FrameTypePing}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
