package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gestion-agents/internal/domain"
)

const (
	DefaultPollInterval = 10 * time.Second
	DefaultToastTTL     = 5 * time.Second
)

// Presenter renders notifications on screen. Dismiss removes a toast
// from view only; it never touches server-side read state, which is
// owned by the bell/inbox interactions.
type Presenter interface {
	Present(notification domain.Notification)
	Dismiss(id uuid.UUID)
}

// Fetcher is the poll source, satisfied by *Client.
type Fetcher interface {
	List(ctx context.Context) ([]domain.Notification, error)
}

// Reconciler presents each notification id at most once, no matter how
// often overlapping poll results or push frames report it. The presented
// set only ever grows.
type Reconciler struct {
	fetcher   Fetcher
	presenter Presenter
	interval  time.Duration
	toastTTL  time.Duration

	mu        sync.Mutex
	presented map[uuid.UUID]struct{}
}

func NewReconciler(fetcher Fetcher, presenter Presenter) *Reconciler {
	return &Reconciler{
		fetcher:   fetcher,
		presenter: presenter,
		interval:  DefaultPollInterval,
		toastTTL:  DefaultToastTTL,
		presented: make(map[uuid.UUID]struct{}),
	}
}

func (r *Reconciler) WithInterval(interval time.Duration) *Reconciler {
	r.interval = interval
	return r
}

func (r *Reconciler) WithToastTTL(ttl time.Duration) *Reconciler {
	r.toastTTL = ttl
	return r
}

// Reconcile presents every notification not seen before. Safe to call
// concurrently from the poll loop and the push listener.
func (r *Reconciler) Reconcile(notifications []domain.Notification) {
	for _, notif := range notifications {
		r.mu.Lock()
		if _, seen := r.presented[notif.ID]; seen {
			r.mu.Unlock()
			continue
		}
		r.presented[notif.ID] = struct{}{}
		r.mu.Unlock()

		r.presenter.Present(notif)

		id := notif.ID
		time.AfterFunc(r.toastTTL, func() {
			r.presenter.Dismiss(id)
		})
	}
}

// PresentedCount reports how many distinct notifications have been
// shown so far.
func (r *Reconciler) PresentedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.presented)
}

// Run polls at a fixed interval until the context is cancelled. The
// caller cancels when the session loses its credential. Poll failures
// are transient: log, wait for the next tick, no backoff, no error
// shown to the user.
func (r *Reconciler) Run(ctx context.Context) {
	r.pollOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.pollOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reconciler) pollOnce(ctx context.Context) {
	notifications, err := r.fetcher.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Debug().Err(err).Msg("notification poll failed, retrying next tick")
		return
	}
	r.Reconcile(notifications)
}
