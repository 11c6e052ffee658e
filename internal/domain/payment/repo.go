package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

// ErrAlreadyPaid reports that a payment was already in the paid state when a
// mark-paid was attempted. Re-paying is idempotent: the caller gets this
// distinct outcome and no state changes a second time.
var ErrAlreadyPaid = &apperr.StateConflictError{Msg: "payment already paid"}

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// MarkPaid flips payment_status 0 -> 1 and stamps payment_date in one
	// guarded update. Returns ErrAlreadyPaid if the payment was paid before,
	// apperr.NotFoundError if it does not exist.
	MarkPaid(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListPendingByPatient(ctx context.Context, patientID uuid.UUID) ([]*PendingPayment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Payment, int, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Payment, error)
}
