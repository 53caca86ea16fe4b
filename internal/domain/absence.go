package domain

import (
	"time"

	"github.com/google/uuid"
)

// Absence is the producer-side view of a leave request. The absence
// module owns its persistence; the notification core only reads the
// fields needed to address and describe an event.
type Absence struct {
	ID        uuid.UUID     `json:"id"`
	AgentID   uuid.UUID     `json:"agent_id"`
	Status    AbsenceStatus `json:"status"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Reason    string        `json:"reason"`
}

type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)
