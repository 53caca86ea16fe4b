package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"gestion-agents/internal/config"
)

type Service interface {
	SendAbsenceDecisionEmail(ctx context.Context, toEmail, fullName, decision string) error
	SendInvoiceOverdueEmail(ctx context.Context, toEmail, fullName, invoiceNumber string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var bodyTemplate = template.Must(template.New("body").Parse(`
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2>{{.Title}}</h2>
  <p>Bonjour {{.Name}},</p>
  <p>{{.Body}}</p>
  <p style="color: #888; font-size: 12px;">Cet email a été envoyé automatiquement, merci de ne pas y répondre.</p>
</div>`))

func (s *service) sendEmail(toEmail, subject, title, name, body string) error {
	var html bytes.Buffer
	data := struct {
		Title string
		Name  string
		Body  string
	}{Title: title, Name: name, Body: body}

	if err := bodyTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Gestion Agents <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendAbsenceDecisionEmail(ctx context.Context, toEmail, fullName, decision string) error {
	return s.sendEmail(
		toEmail,
		fmt.Sprintf("Votre demande d'absence a été %s", decision),
		"Demande d'absence",
		fullName,
		fmt.Sprintf("Votre demande d'absence a été %s. Connectez-vous à votre espace pour plus de détails.", decision),
	)
}

func (s *service) SendInvoiceOverdueEmail(ctx context.Context, toEmail, fullName, invoiceNumber string) error {
	return s.sendEmail(
		toEmail,
		fmt.Sprintf("Facture %s en retard", invoiceNumber),
		"Facture en retard",
		fullName,
		fmt.Sprintf("La facture %s est arrivée à échéance sans règlement. Connectez-vous à votre espace pour la consulter.", invoiceNumber),
	)
}
