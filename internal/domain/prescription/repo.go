package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	// GetByPaymentID resolves the prescription a medicine payment bills for.
	// Each prescription has exactly one payment.
	GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*Prescription, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
}
