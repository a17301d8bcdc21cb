package event

import (
	"context"
	"time"
)

type Type string

const (
	LoanSubmitted   Type = "loan.submitted"
	LoanDecided     Type = "loan.decided"
	PaymentRecorded Type = "payment.recorded"
)

// Event is emitted after the transaction that caused it has committed.
type Event struct {
	Type        Type      `json:"type"`
	LoanID      string    `json:"loan_id"`
	ApplicantID string    `json:"applicant_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Outstanding string    `json:"outstanding_balance,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers events best-effort. Implementations must not block the
// caller on delivery failures.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
