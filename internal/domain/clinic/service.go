package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/domain/inventory"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/payment"
	"github.com/hms/hms/internal/domain/prescription"
	"github.com/hms/hms/internal/domain/visit"
	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

// Service is the front-desk façade: each operation composes the domain
// services into one clinic workflow.
type Service struct {
	patients      *patient.Service
	visits        *visit.Service
	payments      *payment.Service
	prescriptions *prescription.Service
	drugs         *inventory.Service
	tx            db.TxRunner
	fee           float64
	log           zerolog.Logger
}

func NewService(
	patients *patient.Service,
	visits *visit.Service,
	payments *payment.Service,
	prescriptions *prescription.Service,
	drugs *inventory.Service,
	tx db.TxRunner,
	registrationFee float64,
	log zerolog.Logger,
) *Service {
	return &Service{
		patients:      patients,
		visits:        visits,
		payments:      payments,
		prescriptions: prescriptions,
		drugs:         drugs,
		tx:            tx,
		fee:           registrationFee,
		log:           log,
	}
}

// RegisterVisit opens a visit and its registration-fee bill atomically. The
// visit starts UNPAID and joins the waiting list only once the fee is paid.
func (s *Service) RegisterVisit(ctx context.Context, patientID, departmentID uuid.UUID, doctorID *uuid.UUID, chiefComplaint *string, paymentMethod *string) (*visit.Registration, float64, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, 0, err
	}

	var reg *visit.Registration
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		reg, err = s.visits.Create(ctx, patientID, departmentID, doctorID, chiefComplaint)
		if err != nil {
			return err
		}
		_, err = s.payments.Create(ctx, reg.ID, payment.TypeRegistration, s.fee, paymentMethod)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	s.log.Info().
		Str("registration_id", reg.ID.String()).
		Str("patient_id", patientID.String()).
		Float64("fee", s.fee).
		Msg("visit registered")
	return reg, s.fee, nil
}

// WaitingList returns the doctor's queue of fee-paid visits.
func (s *Service) WaitingList(ctx context.Context, doctorID uuid.UUID) ([]*visit.WaitingVisit, error) {
	return s.visits.WaitingList(ctx, doctorID)
}

// SubmitDiagnosis records the consultation outcome and returns the medicine
// payment ids created for its prescriptions.
func (s *Service) SubmitDiagnosis(ctx context.Context, registrationID uuid.UUID, items []prescription.ItemSpec, paymentMethod *string) ([]uuid.UUID, error) {
	return s.prescriptions.FinishConsultation(ctx, registrationID, items, paymentMethod)
}

// PendingPayments lists a patient's unpaid bills with visit context.
func (s *Service) PendingPayments(ctx context.Context, patientID uuid.UUID) ([]*payment.PendingPayment, error) {
	return s.payments.PendingByPatient(ctx, patientID)
}

// PayBillResult is the structured outcome of PayBill. A stock shortfall is an
// expected operational outcome here, not an error: the operator branches on
// it to substitute a drug or restock.
type PayBillResult struct {
	Paid        bool                           `json:"paid"`
	AlreadyPaid bool                           `json:"already_paid,omitempty"`
	Payment     *payment.Payment               `json:"payment,omitempty"`
	Shortfall   *apperr.InsufficientStockError `json:"-"`
}

// PayBill settles a bill. Registration fees move the visit onto the waiting
// list; medicine fees dispense stock. Re-paying a settled bill reports
// AlreadyPaid without changing anything.
func (s *Service) PayBill(ctx context.Context, paymentID uuid.UUID) (*PayBillResult, error) {
	paid, err := s.payments.MarkPaid(ctx, paymentID)
	if err == nil {
		return &PayBillResult{Paid: true, Payment: paid}, nil
	}
	if errors.Is(err, payment.ErrAlreadyPaid) {
		p, getErr := s.payments.Get(ctx, paymentID)
		if getErr != nil {
			return nil, getErr
		}
		return &PayBillResult{Paid: false, AlreadyPaid: true, Payment: p}, nil
	}
	if shortfall, ok := apperr.AsInsufficientStock(err); ok {
		return &PayBillResult{Paid: false, Shortfall: shortfall}, nil
	}
	return nil, err
}

// LowStockDrugs lists drugs under the threshold with severity bands.
func (s *Service) LowStockDrugs(ctx context.Context, threshold int) ([]*inventory.LowStockDrug, error) {
	return s.drugs.LowStock(ctx, threshold)
}

// Patient history reads.

func (s *Service) PatientRegistrations(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*visit.Registration, int, error) {
	return s.visits.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) PatientPrescriptions(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*prescription.Prescription, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) PatientPayments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*payment.Payment, int, error) {
	return s.payments.ListByPatient(ctx, patientID, limit, offset)
}
