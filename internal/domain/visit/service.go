package visit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type Service struct {
	visits Repository
	log    zerolog.Logger
}

func NewService(visits Repository, log zerolog.Logger) *Service {
	return &Service{visits: visits, log: log}
}

// Create opens a new visit in the UNPAID state.
func (s *Service) Create(ctx context.Context, patientID, departmentID uuid.UUID, doctorID *uuid.UUID, chiefComplaint *string) (*Registration, error) {
	if patientID == uuid.Nil {
		return nil, apperr.Validation("patient_id is required")
	}
	if departmentID == uuid.Nil {
		return nil, apperr.Validation("department_id is required")
	}

	reg := &Registration{
		PatientID:      patientID,
		DepartmentID:   departmentID,
		DoctorID:       doctorID,
		Status:         StatusUnpaid,
		ChiefComplaint: chiefComplaint,
	}
	if err := s.visits.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Registration, error) {
	return s.visits.GetByID(ctx, id)
}

// Advance moves the visit one step along the state machine. Moves outside the
// transition table are rejected before touching storage.
func (s *Service) Advance(ctx context.Context, id uuid.UUID, from, to Status) error {
	if !from.CanAdvanceTo(to) {
		return apperr.StateConflict("illegal visit transition %s -> %s", from, to)
	}
	if err := s.visits.Transition(ctx, id, from, to); err != nil {
		return err
	}
	s.log.Info().
		Str("registration_id", id.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("visit status advanced")
	return nil
}

// OnRegistrationFeePaid moves the visit onto the waiting list. It is wired as
// the paid effect of registration-type payments and runs inside that
// payment's transaction.
func (s *Service) OnRegistrationFeePaid(ctx context.Context, registrationID uuid.UUID) error {
	return s.Advance(ctx, registrationID, StatusUnpaid, StatusWaiting)
}

// Complete marks the consultation finished. Only waiting visits qualify.
func (s *Service) Complete(ctx context.Context, registrationID uuid.UUID) error {
	return s.Advance(ctx, registrationID, StatusWaiting, StatusCompleted)
}

// WaitingList returns the doctor's queue, oldest registration first.
func (s *Service) WaitingList(ctx context.Context, doctorID uuid.UUID) ([]*WaitingVisit, error) {
	if doctorID == uuid.Nil {
		return nil, apperr.Validation("doctor_id is required")
	}
	var items []*WaitingVisit
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.visits.ListWaitingByDoctor(ctx, doctorID)
		return err
	})
	return items, err
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Registration, int, error) {
	var items []*Registration
	var total int
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.visits.ListByPatient(ctx, patientID, limit, offset)
		return err
	})
	return items, total, err
}
