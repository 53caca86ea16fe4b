package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendAbsenceDecisionEmail(ctx context.Context, toEmail, fullName, decision string) error {
	args := m.Called(ctx, toEmail, fullName, decision)
	return args.Error(0)
}

func (m *EmailService) SendInvoiceOverdueEmail(ctx context.Context, toEmail, fullName, invoiceNumber string) error {
	args := m.Called(ctx, toEmail, fullName, invoiceNumber)
	return args.Error(0)
}
