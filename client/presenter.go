package client

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/domain"
)

// LogPresenter writes toasts to the log. Useful for headless consumers
// and as a reference implementation of the Presenter contract.
type LogPresenter struct{}

func (LogPresenter) Present(notif domain.Notification) {
	meta := notif.Kind.Meta()
	log.Info().
		Str("id", notif.ID.String()).
		Str("kind", string(notif.Kind)).
		Str("color", meta.Color).
		Str("title", notif.Title).
		Msg(notif.Message)
}

func (LogPresenter) Dismiss(id uuid.UUID) {
	log.Debug().Str("id", id.String()).Msg("toast dismissed")
}
