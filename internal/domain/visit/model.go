package visit

import (
	"time"

	"github.com/google/uuid"
)

// Status is the visit state. It moves forward only:
// UNPAID(0) -> WAITING(1) -> COMPLETED(2).
type Status int

const (
	StatusUnpaid    Status = 0
	StatusWaiting   Status = 1
	StatusCompleted Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusUnpaid:
		return "unpaid"
	case StatusWaiting:
		return "waiting"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// transitions is the closed set of legal status moves. Anything not listed
// here is rejected, which keeps the status monotonically non-decreasing.
var transitions = map[Status]Status{
	StatusUnpaid:  StatusWaiting,
	StatusWaiting: StatusCompleted,
}

// CanAdvanceTo reports whether to is the legal next step from s.
func (s Status) CanAdvanceTo(to Status) bool {
	next, ok := transitions[s]
	return ok && next == to
}

// Registration is one clinic visit, from check-in through completed
// consultation.
type Registration struct {
	ID             uuid.UUID  `db:"registration_id" json:"registration_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	DepartmentID   uuid.UUID  `db:"department_id" json:"department_id"`
	DoctorID       *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	Status         Status     `db:"status" json:"status"`
	ChiefComplaint *string    `db:"chief_complaint" json:"chief_complaint,omitempty"`
	RegisteredAt   time.Time  `db:"registered_at" json:"registered_at"`
}

// WaitingVisit is a waiting-list entry joined with the patient's details for
// the doctor's queue display.
type WaitingVisit struct {
	Registration
	PatientName string    `json:"patient_name"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
}
