package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// AddOrFind registers a patient, deduplicating by phone number: if a patient
// with the same phone already exists, that record is returned instead of
// creating a duplicate. The second return value reports whether a new record
// was created.
func (s *Service) AddOrFind(ctx context.Context, p *Patient) (*Patient, bool, error) {
	if p.Name == "" {
		return nil, false, apperr.Validation("patient_name is required")
	}
	if p.Phone == "" {
		return nil, false, apperr.Validation("phone is required")
	}
	if p.NationalID == "" {
		return nil, false, apperr.Validation("national_id is required")
	}
	if p.DateOfBirth.IsZero() {
		return nil, false, apperr.Validation("date_of_birth is required")
	}

	existing, err := s.patients.GetByPhone(ctx, p.Phone)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	if other, err := s.patients.GetByNationalID(ctx, p.NationalID); err == nil && other != nil {
		return nil, false, apperr.Validation("national_id %q already registered under a different phone", p.NationalID)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, false, err
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// FindByNationalID looks a patient up by national id, for the front desk when
// no phone is on record.
func (s *Service) FindByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	if nationalID == "" {
		return nil, apperr.Validation("national_id is required")
	}
	var p *Patient
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.patients.GetByNationalID(ctx, nationalID)
		return err
	})
	return p, err
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	var total int
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.patients.List(ctx, limit, offset)
		return err
	})
	return items, total, err
}
