package model

import (
	"shutter/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID             = "id"
	FieldBookingID      = "booking_id"
	FieldPayerID        = "payer_id"
	FieldAmount         = "amount"
	FieldMethod         = "method"
	FieldStatus         = "status"
	FieldTransactionRef = "transaction_ref"
	FieldPaidAt         = "paid_at"
	FieldCreatedAt      = "created_at"
)

const (
	StatusPending  = "PENDING"
	StatusPaid     = "PAID"
	StatusFailed   = "FAILED"
	StatusRefunded = "REFUNDED"
)

// transitions lists the statuses a payment may move to; FAILED and REFUNDED are final.
var transitions = map[string][]string{
	StatusPending: {StatusPaid, StatusFailed},
	StatusPaid:    {StatusRefunded},
}

// OutstandingStatuses count against the booking balance.
var OutstandingStatuses = []string{StatusPending, StatusPaid}

type Payment struct {
	ID             string     `db:"id"`
	BookingID      string     `db:"booking_id"`
	PayerID        string     `db:"payer_id"`
	Amount         float64    `db:"amount"`
	Method         string     `db:"method"`
	Status         string     `db:"status"`
	TransactionRef *string    `db:"transaction_ref"`
	PaidAt         *time.Time `db:"paid_at"`
	model.Metadata
}

func (p Payment) CanMoveTo(status string) bool {
	return slices.Contains(transitions[p.Status], status)
}

func AllowedNext(status string) []string {
	return slices.Clone(transitions[status])
}
