package unit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gestion-agents/internal/domain"
	"gestion-agents/internal/service/notification"
	"gestion-agents/tests/mocks"
)

func TestNotificationService_Emit(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockPublisher := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, nil, mockPublisher, nil)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == recipientID &&
				n.Kind == domain.KindInfo &&
				n.Title == "Bienvenue" &&
				n.Message == "Votre compte est prêt" &&
				!n.IsRead &&
				n.ReadAt == nil
		})).Return(nil).Once()
		mockPublisher.On("Publish", ctx, mock.AnythingOfType("*domain.Notification")).Once()

		notif, err := svc.Emit(ctx, recipientID, domain.KindInfo, "Bienvenue", "Votre compte est prêt", nil)

		assert.NoError(t, err)
		assert.NotNil(t, notif)
		assert.Equal(t, recipientID, notif.UserID)
		assert.False(t, notif.IsRead)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("Invalid Kind", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		notif, err := svc.Emit(ctx, recipientID, "BOGUS_KIND", "t", "m", nil)

		assert.ErrorIs(t, err, domain.ErrInvalidKind)
		assert.Nil(t, notif)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure - no push attempted", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockPublisher := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, nil, mockPublisher, nil)

		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

		notif, err := svc.Emit(ctx, recipientID, domain.KindInfo, "t", "m", nil)

		assert.Error(t, err)
		assert.Nil(t, notif)
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_NotifyAbsenceStatus(t *testing.T) {
	ctx := context.Background()
	absence := domain.Absence{
		ID:      uuid.New(),
		AgentID: uuid.New(),
		Status:  domain.AbsenceApproved,
	}

	t.Run("Approved mapping is deterministic", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockPublisher := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, nil, mockPublisher, nil)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == absence.AgentID &&
				n.Kind == domain.KindAbsenceApproved &&
				n.Title == "Absence approuvée" &&
				n.Message == "Votre demande a été approuvée" &&
				n.SubjectRef != nil && *n.SubjectRef == absence.ID
		})).Return(nil).Once()
		mockPublisher.On("Publish", ctx, mock.Anything).Once()

		err := svc.NotifyAbsenceStatus(ctx, absence)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejected mapping", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		rejected := absence
		rejected.Status = domain.AbsenceRejected

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Kind == domain.KindAbsenceRejected && n.Title == "Absence refusée"
		})).Return(nil).Once()

		err := svc.NotifyAbsenceStatus(ctx, rejected)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Emission failure does not fail the transition", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("store unavailable")).Once()

		err := svc.NotifyAbsenceStatus(ctx, absence)

		assert.NoError(t, err)
	})

	t.Run("Unknown status", func(t *testing.T) {
		svc := notification.NewService(new(mocks.NotificationRepository), nil, nil, nil)

		bad := absence
		bad.Status = "archived"

		err := svc.NotifyAbsenceStatus(ctx, bad)

		assert.Error(t, err)
	})
}

func TestNotificationService_DecisionEmail(t *testing.T) {
	ctx := context.Background()
	absence := domain.Absence{
		ID:      uuid.New(),
		AgentID: uuid.New(),
		Status:  domain.AbsenceApproved,
	}
	agent := &domain.User{
		ID:       absence.AgentID,
		Email:    "jean.dupont@example.com",
		FullName: "Jean Dupont",
	}

	// The email goes out from a separate goroutine, so every subtest
	// waits on a channel closed by the email mock before asserting.
	t.Run("Approved decision sends the email", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockEmail := new(mocks.EmailService)
		svc := notification.NewService(mockRepo, mockUsers, nil, mockEmail)

		sent := make(chan struct{})
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockUsers.On("GetByID", mock.Anything, absence.AgentID).Return(agent, nil).Once()
		mockEmail.On("SendAbsenceDecisionEmail", mock.Anything, agent.Email, agent.FullName, "approuvée").
			Return(nil).
			Run(func(mock.Arguments) { close(sent) }).
			Once()

		err := svc.NotifyAbsenceStatus(ctx, absence)

		assert.NoError(t, err)
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("decision email was never sent")
		}
		mockEmail.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})

	t.Run("Email failure does not fail the transition", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockEmail := new(mocks.EmailService)
		svc := notification.NewService(mockRepo, mockUsers, nil, mockEmail)

		rejected := absence
		rejected.Status = domain.AbsenceRejected

		sent := make(chan struct{})
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockUsers.On("GetByID", mock.Anything, absence.AgentID).Return(agent, nil).Once()
		mockEmail.On("SendAbsenceDecisionEmail", mock.Anything, agent.Email, agent.FullName, "refusée").
			Return(errors.New("smtp unavailable")).
			Run(func(mock.Arguments) { close(sent) }).
			Once()

		err := svc.NotifyAbsenceStatus(ctx, rejected)

		assert.NoError(t, err)
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("decision email send was never attempted")
		}
		mockEmail.AssertExpectations(t)
	})

	t.Run("Pending transition sends nothing", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockEmail := new(mocks.EmailService)
		svc := notification.NewService(mockRepo, mockUsers, nil, mockEmail)

		pending := absence
		pending.Status = domain.AbsencePending

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		err := svc.NotifyAbsenceStatus(ctx, pending)

		assert.NoError(t, err)
		mockEmail.AssertNotCalled(t, "SendAbsenceDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockUsers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Overdue invoice sends the reminder email", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockEmail := new(mocks.EmailService)
		svc := notification.NewService(mockRepo, mockUsers, nil, mockEmail)

		invoice := domain.Invoice{
			ID:      uuid.New(),
			AgentID: agent.ID,
			Number:  "FAC-2026-0042",
			Status:  domain.InvoiceOverdue,
		}

		sent := make(chan struct{})
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockUsers.On("GetByID", mock.Anything, invoice.AgentID).Return(agent, nil).Once()
		mockEmail.On("SendInvoiceOverdueEmail", mock.Anything, agent.Email, agent.FullName, invoice.Number).
			Return(nil).
			Run(func(mock.Arguments) { close(sent) }).
			Once()

		err := svc.NotifyInvoiceStatus(ctx, invoice)

		assert.NoError(t, err)
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("overdue email was never sent")
		}
		mockEmail.AssertExpectations(t)
	})
}

func TestNotificationService_NotifyInvoiceStatus(t *testing.T) {
	ctx := context.Background()
	invoice := domain.Invoice{
		ID:      uuid.New(),
		AgentID: uuid.New(),
		Number:  "FAC-2026-0042",
		Status:  domain.InvoicePaid,
	}

	t.Run("Paid mapping", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == invoice.AgentID &&
				n.Kind == domain.KindInvoicePaid &&
				n.Message == "La facture FAC-2026-0042 a été réglée"
		})).Return(nil).Once()

		err := svc.NotifyInvoiceStatus(ctx, invoice)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Draft emits nothing", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		draft := invoice
		draft.Status = domain.InvoiceDraft

		err := svc.NotifyInvoiceStatus(ctx, draft)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Overdue mapping", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		overdue := invoice
		overdue.Status = domain.InvoiceOverdue

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Kind == domain.KindInvoiceOverdue
		})).Return(nil).Once()

		err := svc.NotifyInvoiceStatus(ctx, overdue)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestNotificationService_ReadState(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("MarkAsRead returns the updated notification", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		updated := &domain.Notification{ID: notifID, UserID: userID, IsRead: true}
		mockRepo.On("MarkAsRead", ctx, notifID, userID).Return(updated, nil).Once()

		notif, err := svc.MarkAsRead(ctx, notifID, userID)

		assert.NoError(t, err)
		assert.True(t, notif.IsRead)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MarkAsRead ownership mismatch surfaces NotFound", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		otherUser := uuid.New()
		mockRepo.On("MarkAsRead", ctx, notifID, otherUser).Return(nil, domain.ErrNotificationNotFound).Once()

		notif, err := svc.MarkAsRead(ctx, notifID, otherUser)

		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
		assert.Nil(t, notif)
	})

	t.Run("Delete on missing id surfaces NotFound", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		mockRepo.On("Delete", ctx, notifID, userID).Return(domain.ErrNotificationNotFound).Once()

		err := svc.Delete(ctx, notifID, userID)

		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})

	t.Run("MarkAllAsRead reports the affected count", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, nil, nil, nil)

		mockRepo.On("MarkAllAsRead", ctx, userID).Return(int64(3), nil).Once()

		count, err := svc.MarkAllAsRead(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
