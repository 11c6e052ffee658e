package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type Service struct {
	catalog Repository
}

func NewService(catalog Repository) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) AddDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return apperr.Validation("department_name is required")
	}
	return s.catalog.CreateDepartment(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.catalog.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	var items []*Department
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.catalog.ListDepartments(ctx)
		return err
	})
	return items, err
}

func (s *Service) AddDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return apperr.Validation("doctor_name is required")
	}
	if d.DepartmentID == uuid.Nil {
		return apperr.Validation("department_id is required")
	}
	if _, err := s.catalog.GetDepartment(ctx, d.DepartmentID); err != nil {
		return err
	}
	return s.catalog.CreateDoctor(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.catalog.GetDoctor(ctx, id)
}

func (s *Service) ListDoctorsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*Doctor, error) {
	if departmentID == uuid.Nil {
		return nil, apperr.Validation("department_id is required")
	}
	var items []*Doctor
	err := db.ReadRetry(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.catalog.ListDoctorsByDepartment(ctx, departmentID)
		return err
	})
	return items, err
}
