package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	UserID     uuid.UUID        `json:"user_id" db:"user_id"`
	Kind       NotificationKind `json:"kind" db:"kind"`
	Title      string           `json:"title" db:"title"`
	Message    string           `json:"message" db:"message"`
	SubjectRef *uuid.UUID       `json:"subject_ref,omitempty" db:"subject_ref"`
	IsRead     bool             `json:"is_read" db:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

type NotificationKind string

const (
	KindAbsenceCreated   NotificationKind = "ABSENCE_CREATED"
	KindAbsenceApproved  NotificationKind = "ABSENCE_APPROVED"
	KindAbsenceRejected  NotificationKind = "ABSENCE_REJECTED"
	KindAbsencePending   NotificationKind = "ABSENCE_PENDING"
	KindInvoiceCreated   NotificationKind = "INVOICE_CREATED"
	KindInvoicePaid      NotificationKind = "INVOICE_PAID"
	KindInvoiceOverdue   NotificationKind = "INVOICE_OVERDUE"
	KindInvoiceCancelled NotificationKind = "INVOICE_CANCELLED"
	KindSystem           NotificationKind = "SYSTEM"
	KindInfo             NotificationKind = "INFO"
	KindSuccess          NotificationKind = "SUCCESS"
	KindWarning          NotificationKind = "WARNING"
	KindError            NotificationKind = "ERROR"
)

// KindMeta carries the presentation attributes of a notification kind.
type KindMeta struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// kindMeta is the exhaustive mapping over the closed kind set. Adding a
// kind without extending this table makes Valid() reject it, so the two
// cannot drift apart.
var kindMeta = map[NotificationKind]KindMeta{
	KindAbsenceCreated:   {Color: "blue", Icon: "calendar-plus"},
	KindAbsenceApproved:  {Color: "green", Icon: "calendar-check"},
	KindAbsenceRejected:  {Color: "red", Icon: "calendar-x"},
	KindAbsencePending:   {Color: "orange", Icon: "calendar-clock"},
	KindInvoiceCreated:   {Color: "blue", Icon: "file-plus"},
	KindInvoicePaid:      {Color: "green", Icon: "file-check"},
	KindInvoiceOverdue:   {Color: "red", Icon: "file-warning"},
	KindInvoiceCancelled: {Color: "gray", Icon: "file-x"},
	KindSystem:           {Color: "gray", Icon: "settings"},
	KindInfo:             {Color: "blue", Icon: "info"},
	KindSuccess:          {Color: "green", Icon: "check-circle"},
	KindWarning:          {Color: "orange", Icon: "alert-triangle"},
	KindError:            {Color: "red", Icon: "alert-octagon"},
}

func (k NotificationKind) Valid() bool {
	_, ok := kindMeta[k]
	return ok
}

func (k NotificationKind) Meta() KindMeta {
	return kindMeta[k]
}
