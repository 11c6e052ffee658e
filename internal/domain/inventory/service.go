package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

// DefaultLowStockThreshold is used when a caller does not supply one.
const DefaultLowStockThreshold = 10

type Service struct {
	drugs     Repository
	threshold int
}

// NewService builds the inventory service. lowStockThreshold is the default
// cutoff for low-stock reports; zero or negative falls back to
// DefaultLowStockThreshold.
func NewService(drugs Repository, lowStockThreshold int) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Service{drugs: drugs, threshold: lowStockThreshold}
}

func (s *Service) AddDrug(ctx context.Context, d *Drug) error {
	if d.Name == "" {
		return apperr.Validation("drug_name is required")
	}
	if d.Code == "" {
		return apperr.Validation("drug_code is required")
	}
	if d.UnitPrice <= 0 {
		return apperr.Validation("unit_price must be positive, got %v", d.UnitPrice)
	}
	if d.StoredQuantity < 0 {
		return apperr.Validation("stored_quantity must not be negative, got %d", d.StoredQuantity)
	}
	if existing, err := s.drugs.GetByCode(ctx, d.Code); err == nil && existing != nil {
		return apperr.Validation("drug code %q already exists", d.Code)
	} else if err != nil && !apperr.IsNotFound(err) {
		return err
	}
	return s.drugs.Create(ctx, d)
}

func (s *Service) GetDrug(ctx context.Context, id uuid.UUID) (*Drug, error) {
	return s.drugs.GetByID(ctx, id)
}

func (s *Service) ListDrugs(ctx context.Context, limit, offset int) ([]*Drug, int, error) {
	var items []*Drug
	var total int
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.drugs.List(ctx, limit, offset)
		return err
	})
	return items, total, err
}

// Deduct removes quantity units of a drug from stock. It is the sole path by
// which stock decreases; callers invoke it only from inside a payment
// transaction so a failed downstream step undoes the decrement.
func (s *Service) Deduct(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be positive, got %d", quantity)
	}
	return s.drugs.Deduct(ctx, id, quantity)
}

func (s *Service) Restock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("restock quantity must be positive, got %d", quantity)
	}
	return s.drugs.Restock(ctx, id, quantity)
}

// LowStock returns drugs with stock below threshold, ordered by name, each
// annotated with a severity band. This is a point-in-time read; it does not
// block concurrent deductions.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*LowStockDrug, error) {
	if threshold <= 0 {
		threshold = s.threshold
	}
	var drugs []*Drug
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		drugs, err = s.drugs.ListBelowThreshold(ctx, threshold)
		return err
	})
	if err != nil {
		return nil, err
	}
	result := make([]*LowStockDrug, 0, len(drugs))
	for _, d := range drugs {
		result = append(result, &LowStockDrug{Drug: *d, Severity: SeverityFor(d.StoredQuantity)})
	}
	return result, nil
}

// DeleteDrug removes a drug unless prescriptions still reference it.
func (s *Service) DeleteDrug(ctx context.Context, id uuid.UUID) error {
	count, err := s.drugs.ReferencingPrescriptions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.StateConflict("drug is referenced by %d prescription(s) and cannot be deleted", count)
	}
	return s.drugs.Delete(ctx, id)
}
