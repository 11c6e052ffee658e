package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. Created once at first contact and
// deduplicated by phone number after that.
type Patient struct {
	ID          uuid.UUID `db:"patient_id" json:"patient_id"`
	Name        string    `db:"patient_name" json:"patient_name"`
	Gender      string    `db:"gender" json:"gender"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	Phone       string    `db:"phone" json:"phone"`
	Address     *string   `db:"address" json:"address,omitempty"`
	NationalID  string    `db:"national_id" json:"national_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
