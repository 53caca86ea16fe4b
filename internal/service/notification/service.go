package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/domain"
	"gestion-agents/internal/gateway"
	"gestion-agents/internal/repository"
	"gestion-agents/internal/service/email"
)

type Service interface {
	// Emit is the only way a notification comes into existence.
	Emit(ctx context.Context, recipientID uuid.UUID, kind domain.NotificationKind, title, message string, subjectRef *uuid.UUID) (*domain.Notification, error)

	List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteAllRead(ctx context.Context, userID uuid.UUID) error

	NotifyAbsenceCreated(ctx context.Context, absence domain.Absence) error
	NotifyAbsenceStatus(ctx context.Context, absence domain.Absence) error
	NotifyInvoiceStatus(ctx context.Context, invoice domain.Invoice) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher gateway.Publisher
	emailSvc  email.Service
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher gateway.Publisher,
	emailSvc email.Service,
) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		publisher: publisher,
		emailSvc:  emailSvc,
	}
}

// Emit persists the notification, then signals the delivery gateway.
// Persistence is authoritative: a publish failure is the gateway's
// problem and never surfaces here, while a store failure propagates
// before any push is attempted.
func (s *service) Emit(ctx context.Context, recipientID uuid.UUID, kind domain.NotificationKind, title, message string, subjectRef *uuid.UUID) (*domain.Notification, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	notif := &domain.Notification{
		ID:         uuid.New(),
		UserID:     recipientID,
		Kind:       kind,
		Title:      title,
		Message:    message,
		SubjectRef: subjectRef,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, notif)
	}

	return notif, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, false, limit)
}

func (s *service) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, true, limit)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifRepo.Delete(ctx, id, userID)
}

func (s *service) DeleteAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.DeleteAllRead(ctx, userID)
}

// NotifyAbsenceCreated acknowledges a freshly submitted leave request to
// the agent who filed it.
func (s *service) NotifyAbsenceCreated(ctx context.Context, absence domain.Absence) error {
	subjectRef := absence.ID
	_, err := s.Emit(ctx, absence.AgentID, domain.KindAbsenceCreated,
		"Demande d'absence enregistrée",
		"Votre demande d'absence a bien été enregistrée",
		&subjectRef,
	)
	if err != nil {
		log.Error().Err(err).Str("absence_id", absence.ID.String()).Msg("failed to emit absence created notification")
	}
	return nil
}

// NotifyAbsenceStatus translates an absence status transition into a
// notification for the absence's agent. The mapping is deterministic:
// the same transition always produces the same kind, title and message.
// Emission failures are logged; the triggering transition never fails
// because of them.
func (s *service) NotifyAbsenceStatus(ctx context.Context, absence domain.Absence) error {
	var (
		kind    domain.NotificationKind
		title   string
		message string
	)

	switch absence.Status {
	case domain.AbsencePending:
		kind = domain.KindAbsencePending
		title = "Demande d'absence en attente"
		message = "Votre demande d'absence est en attente de validation"
	case domain.AbsenceApproved:
		kind = domain.KindAbsenceApproved
		title = "Absence approuvée"
		message = "Votre demande a été approuvée"
	case domain.AbsenceRejected:
		kind = domain.KindAbsenceRejected
		title = "Absence refusée"
		message = "Votre demande a été refusée"
	default:
		return fmt.Errorf("unknown absence status: %s", absence.Status)
	}

	subjectRef := absence.ID
	if _, err := s.Emit(ctx, absence.AgentID, kind, title, message, &subjectRef); err != nil {
		log.Error().Err(err).Str("absence_id", absence.ID.String()).Msg("failed to emit absence notification")
		return nil
	}

	if s.emailSvc != nil && (absence.Status == domain.AbsenceApproved || absence.Status == domain.AbsenceRejected) {
		decision := "approuvée"
		if absence.Status == domain.AbsenceRejected {
			decision = "refusée"
		}
		s.sendEmailAsync(absence.AgentID, func(user *domain.User) error {
			return s.emailSvc.SendAbsenceDecisionEmail(context.Background(), user.Email, user.FullName, decision)
		})
	}

	return nil
}

// NotifyInvoiceStatus translates an invoice status transition into a
// notification for the invoiced agent. Draft invoices are internal and
// emit nothing.
func (s *service) NotifyInvoiceStatus(ctx context.Context, invoice domain.Invoice) error {
	var (
		kind    domain.NotificationKind
		title   string
		message string
	)

	switch invoice.Status {
	case domain.InvoiceDraft:
		return nil
	case domain.InvoiceSent:
		kind = domain.KindInvoiceCreated
		title = "Nouvelle facture"
		message = fmt.Sprintf("La facture %s est disponible", invoice.Number)
	case domain.InvoicePaid:
		kind = domain.KindInvoicePaid
		title = "Facture payée"
		message = fmt.Sprintf("La facture %s a été réglée", invoice.Number)
	case domain.InvoiceOverdue:
		kind = domain.KindInvoiceOverdue
		title = "Facture en retard"
		message = fmt.Sprintf("La facture %s est arrivée à échéance", invoice.Number)
	case domain.InvoiceCancelled:
		kind = domain.KindInvoiceCancelled
		title = "Facture annulée"
		message = fmt.Sprintf("La facture %s a été annulée", invoice.Number)
	default:
		return fmt.Errorf("unknown invoice status: %s", invoice.Status)
	}

	subjectRef := invoice.ID
	if _, err := s.Emit(ctx, invoice.AgentID, kind, title, message, &subjectRef); err != nil {
		log.Error().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to emit invoice notification")
		return nil
	}

	if s.emailSvc != nil && invoice.Status == domain.InvoiceOverdue {
		s.sendEmailAsync(invoice.AgentID, func(user *domain.User) error {
			return s.emailSvc.SendInvoiceOverdueEmail(context.Background(), user.Email, user.FullName, invoice.Number)
		})
	}

	return nil
}

func (s *service) sendEmailAsync(userID uuid.UUID, send func(*domain.User) error) {
	go func() {
		user, err := s.userRepo.GetByID(context.Background(), userID)
		if err != nil || user == nil || user.Email == "" {
			return
		}
		if err := send(user); err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to send notification email")
		}
	}()
}
