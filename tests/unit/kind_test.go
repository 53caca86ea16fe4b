package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gestion-agents/internal/domain"
)

func TestNotificationKind_ClosedSet(t *testing.T) {
	kinds := []domain.NotificationKind{
		domain.KindAbsenceCreated,
		domain.KindAbsenceApproved,
		domain.KindAbsenceRejected,
		domain.KindAbsencePending,
		domain.KindInvoiceCreated,
		domain.KindInvoicePaid,
		domain.KindInvoiceOverdue,
		domain.KindInvoiceCancelled,
		domain.KindSystem,
		domain.KindInfo,
		domain.KindSuccess,
		domain.KindWarning,
		domain.KindError,
	}

	for _, kind := range kinds {
		assert.True(t, kind.Valid(), "kind %s must be valid", kind)
		meta := kind.Meta()
		assert.NotEmpty(t, meta.Color, "kind %s must map to a color", kind)
		assert.NotEmpty(t, meta.Icon, "kind %s must map to an icon", kind)
	}

	assert.False(t, domain.NotificationKind("NOT_A_KIND").Valid())
	assert.False(t, domain.NotificationKind("").Valid())
}
