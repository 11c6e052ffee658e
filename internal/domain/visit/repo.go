package visit

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	// Transition moves the registration from one status to the next with a
	// guarded update so concurrent writers cannot race the status forward or
	// backward. Returns apperr.NotFoundError if the registration does not
	// exist and apperr.StateConflictError if it is not in the from status.
	Transition(ctx context.Context, id uuid.UUID, from, to Status) error
	ListWaitingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WaitingVisit, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Registration, int, error)
}
