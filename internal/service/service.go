package service

import (
	"gestion-agents/internal/config"
	"gestion-agents/internal/gateway"
	"gestion-agents/internal/repository"
	"gestion-agents/internal/service/auth"
	"gestion-agents/internal/service/email"
	"gestion-agents/internal/service/notification"
)

type Services struct {
	Auth         auth.Service
	Email        email.Service
	Notification notification.Service
}

func NewServices(repos *repository.Repositories, publisher gateway.Publisher, cfg *config.Config) *Services {
	var emailService email.Service
	if cfg.EmailEnabled {
		emailService = email.NewService(cfg)
	}

	authService := auth.NewService(repos.User, cfg)
	notificationService := notification.NewService(repos.Notification, repos.User, publisher, emailService)

	return &Services{
		Auth:         authService,
		Email:        emailService,
		Notification: notificationService,
	}
}
