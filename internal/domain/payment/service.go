package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

// OnPaidFunc runs inside the mark-paid transaction, after the status flip.
// Returning an error aborts the whole transaction, leaving the payment
// unpaid: a patient is never charged for medicine that was not dispensed.
type OnPaidFunc func(ctx context.Context, p *Payment) error

type Service struct {
	payments Repository
	tx       db.TxRunner
	log      zerolog.Logger
	onPaid   map[Type]OnPaidFunc
}

func NewService(payments Repository, tx db.TxRunner, log zerolog.Logger) *Service {
	return &Service{
		payments: payments,
		tx:       tx,
		log:      log,
		onPaid:   make(map[Type]OnPaidFunc),
	}
}

// OnPaid registers the downstream effect fired when a payment of the given
// type is marked paid. Wired once at startup.
func (s *Service) OnPaid(t Type, fn OnPaidFunc) {
	s.onPaid[t] = fn
}

// Create records a new billable event in the UNPAID state.
func (s *Service) Create(ctx context.Context, registrationID uuid.UUID, t Type, amount float64, method *string) (*Payment, error) {
	if registrationID == uuid.Nil {
		return nil, apperr.Validation("registration_id is required")
	}
	if !t.Valid() {
		return nil, apperr.Validation("invalid payment type: %s", t)
	}
	if amount < 0 {
		return nil, apperr.Validation("amount must not be negative, got %v", amount)
	}

	p := &Payment{
		RegistrationID: registrationID,
		Type:           t,
		Amount:         amount,
		Method:         method,
		Status:         StatusUnpaid,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarkPaid flips the payment to PAID and runs its registered downstream
// effect as one atomic unit. If the effect fails (for example insufficient
// stock), the flip rolls back and the payment stays unpaid.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var paid *Payment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.MarkPaid(ctx, id)
		if err != nil {
			return err
		}
		if fn, ok := s.onPaid[p.Type]; ok {
			if err := fn(ctx, p); err != nil {
				return err
			}
		}
		paid = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("payment_id", paid.ID.String()).
		Str("payment_type", string(paid.Type)).
		Float64("amount", paid.Amount).
		Msg("payment marked paid")
	return paid, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// PendingByPatient lists a patient's unpaid bills with visit context.
func (s *Service) PendingByPatient(ctx context.Context, patientID uuid.UUID) ([]*PendingPayment, error) {
	var items []*PendingPayment
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.payments.ListPendingByPatient(ctx, patientID)
		return err
	})
	return items, err
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	var items []*Payment
	var total int
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.payments.ListByPatient(ctx, patientID, limit, offset)
		return err
	})
	return items, total, err
}

func (s *Service) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Payment, error) {
	return s.payments.ListByRegistration(ctx, registrationID)
}
