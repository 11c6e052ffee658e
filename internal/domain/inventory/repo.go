package inventory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Drug) error
	GetByID(ctx context.Context, id uuid.UUID) (*Drug, error)
	GetByCode(ctx context.Context, code string) (*Drug, error)
	List(ctx context.Context, limit, offset int) ([]*Drug, int, error)
	// Deduct atomically decrements stock, guarded by the current quantity.
	// It returns apperr.NotFoundError when the drug does not exist and
	// apperr.InsufficientStockError when stock is short; it is the only
	// operation that may decrease stored_quantity.
	Deduct(ctx context.Context, id uuid.UUID, quantity int) error
	Restock(ctx context.Context, id uuid.UUID, quantity int) error
	ListBelowThreshold(ctx context.Context, threshold int) ([]*Drug, error)
	// ReferencingPrescriptions counts prescriptions that reference the drug,
	// used to restrict deletion.
	ReferencingPrescriptions(ctx context.Context, id uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
