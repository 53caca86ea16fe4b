package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the producer-side view of a billing document, mirroring
// Absence: owned elsewhere, read here to build notifications.
type Invoice struct {
	ID      uuid.UUID     `json:"id"`
	AgentID uuid.UUID     `json:"agent_id"`
	Number  string        `json:"number"`
	Amount  float64       `json:"amount"`
	Status  InvoiceStatus `json:"status"`
	DueDate time.Time     `json:"due_date"`
}

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)
