package prescription

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDurationDays is used when a prescription line does not specify one.
const DefaultDurationDays = 7

// Prescription links one drug line of a diagnosis to the medicine payment
// that must clear before stock is dispensed.
type Prescription struct {
	ID             uuid.UUID `db:"prescription_id" json:"prescription_id"`
	RegistrationID uuid.UUID `db:"registration_id" json:"registration_id"`
	DrugID         uuid.UUID `db:"drug_id" json:"drug_id"`
	PaymentID      uuid.UUID `db:"payment_id" json:"payment_id"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Dosage         *string   `db:"dosage" json:"dosage,omitempty"`
	DurationDays   int       `db:"duration_days" json:"duration_days"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ItemSpec is one prescription line of a diagnosis submission.
type ItemSpec struct {
	DrugID       uuid.UUID `json:"drug_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	Dosage       *string   `json:"dosage,omitempty"`
	DurationDays int       `json:"duration_days,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}
