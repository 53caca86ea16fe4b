package gateway

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/domain"
)

const eventChannel = "notifications:events"

// Publisher is the producer-facing half of the gateway: a fire-and-forget
// "new event for recipient X" signal. Implementations must never block
// the caller on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, notif *domain.Notification)
}

type envelope struct {
	RecipientID  string               `json:"recipient_id"`
	Notification *domain.Notification `json:"notification"`
}

// Broker bridges emitted notifications to connected clients through
// Redis pub/sub, so an event written on one API instance reaches
// connections held by another.
type Broker struct {
	rdb *redis.Client
	hub *Hub
}

func NewBroker(rdb *redis.Client, hub *Hub) *Broker {
	return &Broker{rdb: rdb, hub: hub}
}

// Publish signals a new event. Failures are logged and swallowed: the
// notification is already persisted, and the poll path covers delivery.
func (b *Broker) Publish(ctx context.Context, notif *domain.Notification) {
	payload, err := json.Marshal(envelope{
		RecipientID:  notif.UserID.String(),
		Notification: notif,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal notification event")
		return
	}

	if err := b.rdb.Publish(ctx, eventChannel, payload).Err(); err != nil {
		log.Error().Err(err).Str("user_id", notif.UserID.String()).Msg("failed to publish notification event")
	}
}

// Run subscribes to the event channel and fans incoming events into the
// local hub until the context is cancelled.
func (b *Broker) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, eventChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Error().Err(err).Msg("failed to decode notification event")
				continue
			}
			b.hub.Publish(env.RecipientID, Frame{
				Type:    FrameTypeNotification,
				Payload: env.Notification,
			})
		case <-ctx.Done():
			return
		}
	}
}
