package payment

import (
	"time"

	"github.com/google/uuid"
)

// Type distinguishes what a payment bills for. Registration fees advance the
// visit state machine when paid; medicine fees deduct pharmacy stock.
type Type string

const (
	TypeRegistration Type = "registration"
	TypeMedicine     Type = "medicine"
)

func (t Type) Valid() bool {
	return t == TypeRegistration || t == TypeMedicine
}

// Status is the payment state. It moves 0 -> 1 exactly once.
type Status int

const (
	StatusUnpaid Status = 0
	StatusPaid   Status = 1
)

// Payment maps to the payment table, one row per billable event.
type Payment struct {
	ID             uuid.UUID  `db:"payment_id" json:"payment_id"`
	RegistrationID uuid.UUID  `db:"registration_id" json:"registration_id"`
	Type           Type       `db:"payment_type" json:"payment_type"`
	Amount         float64    `db:"amount" json:"amount"`
	Method         *string    `db:"payment_method" json:"payment_method,omitempty"`
	Status         Status     `db:"payment_status" json:"payment_status"`
	PaidAt         *time.Time `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// PendingPayment is an unpaid payment joined with its visit context for
// display at the billing desk.
type PendingPayment struct {
	Payment
	RegisteredAt time.Time `json:"registered_at"`
	DoctorName   *string   `json:"doctor_name,omitempty"`
}
