package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Department is a clinic department. Reference data, read-mostly.
type Department struct {
	ID          uuid.UUID `db:"department_id" json:"department_id"`
	Name        string    `db:"department_name" json:"department_name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Location    *string   `db:"location" json:"location,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Doctor belongs to exactly one department.
type Doctor struct {
	ID             uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Name           string    `db:"doctor_name" json:"doctor_name"`
	Gender         *string   `db:"gender" json:"gender,omitempty"`
	Title          *string   `db:"title" json:"title,omitempty"`
	DepartmentID   uuid.UUID `db:"department_id" json:"department_id"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
