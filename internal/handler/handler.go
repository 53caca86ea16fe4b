package handler

import (
	"gestion-agents/internal/config"
	"gestion-agents/internal/gateway"
	"gestion-agents/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	Stream       *StreamHandler
}

func NewHandlers(services *service.Services, hub *gateway.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Stream:       NewStreamHandler(services.Auth, hub, cfg.PushPingPeriod),
	}
}
