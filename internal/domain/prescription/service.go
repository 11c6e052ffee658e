package prescription

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/domain/inventory"
	"github.com/hms/hms/internal/domain/payment"
	"github.com/hms/hms/internal/domain/visit"
	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type Service struct {
	prescriptions Repository
	drugs         *inventory.Service
	payments      *payment.Service
	visits        *visit.Service
	tx            db.TxRunner
	log           zerolog.Logger
}

func NewService(prescriptions Repository, drugs *inventory.Service, payments *payment.Service, visits *visit.Service, tx db.TxRunner, log zerolog.Logger) *Service {
	return &Service{
		prescriptions: prescriptions,
		drugs:         drugs,
		payments:      payments,
		visits:        visits,
		tx:            tx,
		log:           log,
	}
}

// FinishConsultation records the diagnosis outcome: every prescription line
// with its unpaid medicine bill, plus the visit's move to COMPLETED, all in
// one transaction. Any failing line rolls the whole submission back.
//
// The stock check here is advisory, a fast fail while the patient is still
// with the doctor. Enforcement happens when the medicine bill is paid and
// stock is actually deducted.
func (s *Service) FinishConsultation(ctx context.Context, registrationID uuid.UUID, items []ItemSpec, paymentMethod *string) ([]uuid.UUID, error) {
	if registrationID == uuid.Nil {
		return nil, apperr.Validation("registration_id is required")
	}

	var paymentIDs []uuid.UUID
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		reg, err := s.visits.Get(ctx, registrationID)
		if err != nil {
			return err
		}
		if reg.Status != visit.StatusWaiting {
			return apperr.StateConflict("registration %s is %s, diagnosis requires a waiting visit", registrationID, reg.Status)
		}

		for _, item := range items {
			if item.Quantity <= 0 {
				return apperr.Validation("prescription quantity must be positive, got %d", item.Quantity)
			}
			drug, err := s.drugs.GetDrug(ctx, item.DrugID)
			if err != nil {
				return err
			}
			if drug.StoredQuantity < item.Quantity {
				return &apperr.InsufficientStockError{
					DrugName:  drug.Name,
					Required:  item.Quantity,
					Available: drug.StoredQuantity,
				}
			}

			cost := drug.UnitPrice * float64(item.Quantity)
			pay, err := s.payments.Create(ctx, registrationID, payment.TypeMedicine, cost, paymentMethod)
			if err != nil {
				return err
			}

			duration := item.DurationDays
			if duration <= 0 {
				duration = DefaultDurationDays
			}
			p := &Prescription{
				RegistrationID: registrationID,
				DrugID:         item.DrugID,
				PaymentID:      pay.ID,
				Quantity:       item.Quantity,
				Dosage:         item.Dosage,
				DurationDays:   duration,
				Notes:          item.Notes,
			}
			if err := s.prescriptions.Create(ctx, p); err != nil {
				return err
			}
			paymentIDs = append(paymentIDs, pay.ID)
		}

		return s.visits.Complete(ctx, registrationID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("registration_id", registrationID.String()).
		Int("prescriptions", len(paymentIDs)).
		Msg("consultation finished")
	return paymentIDs, nil
}

// OnMedicinePaid dispenses the prescribed drug from stock. It is wired as the
// paid effect of medicine-type payments and runs inside that payment's
// transaction, so a shortfall rolls the payment back to unpaid.
func (s *Service) OnMedicinePaid(ctx context.Context, p *payment.Payment) error {
	pres, err := s.prescriptions.GetByPaymentID(ctx, p.ID)
	if err != nil {
		return err
	}
	return s.drugs.Deduct(ctx, pres.DrugID, pres.Quantity)
}

func (s *Service) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Prescription, error) {
	var items []*Prescription
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.prescriptions.ListByRegistration(ctx, registrationID)
		return err
	})
	return items, err
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var items []*Prescription
	var total int
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
		return err
	})
	return items, total, err
}
