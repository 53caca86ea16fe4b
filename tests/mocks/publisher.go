package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gestion-agents/internal/domain"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, notif *domain.Notification) {
	m.Called(ctx, notif)
}
