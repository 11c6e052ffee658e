package visit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
)

type mockVisitRepo struct {
	items map[uuid.UUID]*Registration
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{items: make(map[uuid.UUID]*Registration)}
}

func (m *mockVisitRepo) Create(_ context.Context, r *Registration) error {
	r.ID = uuid.New()
	r.RegisteredAt = time.Now()
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id uuid.UUID) (*Registration, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("registration", id.String())
	}
	cp := *r
	return &cp, nil
}

func (m *mockVisitRepo) Transition(_ context.Context, id uuid.UUID, from, to Status) error {
	r, ok := m.items[id]
	if !ok {
		return apperr.NotFound("registration", id.String())
	}
	if r.Status != from {
		return apperr.StateConflict("registration %s is %s, expected %s", id, r.Status, from)
	}
	r.Status = to
	return nil
}

func (m *mockVisitRepo) ListWaitingByDoctor(_ context.Context, doctorID uuid.UUID) ([]*WaitingVisit, error) {
	var items []*WaitingVisit
	for _, r := range m.items {
		if r.Status == StatusWaiting && r.DoctorID != nil && *r.DoctorID == doctorID {
			items = append(items, &WaitingVisit{Registration: *r})
		}
	}
	return items, nil
}

func (m *mockVisitRepo) ListByPatient(_ context.Context, patientID uuid.UUID, _, _ int) ([]*Registration, int, error) {
	var items []*Registration
	for _, r := range m.items {
		if r.PatientID == patientID {
			cp := *r
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func newTestService(repo *mockVisitRepo) *Service {
	return NewService(repo, zerolog.New(os.Stderr))
}

func TestCreate(t *testing.T) {
	repo := newMockVisitRepo()
	svc := newTestService(repo)

	reg, err := svc.Create(context.Background(), uuid.New(), uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Status != StatusUnpaid {
		t.Errorf("expected new visit to start unpaid, got %s", reg.Status)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newMockVisitRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, uuid.Nil, uuid.New(), nil, nil); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for nil patient, got %v", err)
	}
	if _, err := svc.Create(ctx, uuid.New(), uuid.Nil, nil, nil); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for nil department, got %v", err)
	}
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusUnpaid, StatusWaiting, true},
		{StatusWaiting, StatusCompleted, true},
		{StatusUnpaid, StatusCompleted, false},
		{StatusWaiting, StatusUnpaid, false},
		{StatusCompleted, StatusWaiting, false},
		{StatusCompleted, StatusUnpaid, false},
		{StatusCompleted, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestAdvance_FullLifecycle(t *testing.T) {
	repo := newMockVisitRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, _ := svc.Create(ctx, uuid.New(), uuid.New(), nil, nil)

	if err := svc.OnRegistrationFeePaid(ctx, reg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(ctx, reg.ID)
	if got.Status != StatusWaiting {
		t.Fatalf("expected waiting after fee paid, got %s", got.Status)
	}

	if err := svc.Complete(ctx, reg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = svc.Get(ctx, reg.ID)
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
}

// The status never moves backward: once completed, nothing advances or
// rewinds the visit.
func TestAdvance_Monotonic(t *testing.T) {
	repo := newMockVisitRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, _ := svc.Create(ctx, uuid.New(), uuid.New(), nil, nil)
	svc.OnRegistrationFeePaid(ctx, reg.ID)
	svc.Complete(ctx, reg.ID)

	if err := svc.Advance(ctx, reg.ID, StatusCompleted, StatusWaiting); !apperr.IsStateConflict(err) {
		t.Errorf("expected state conflict for completed -> waiting, got %v", err)
	}
	if err := svc.OnRegistrationFeePaid(ctx, reg.ID); !apperr.IsStateConflict(err) {
		t.Errorf("expected state conflict re-firing fee paid on completed visit, got %v", err)
	}
	got, _ := svc.Get(ctx, reg.ID)
	if got.Status != StatusCompleted {
		t.Errorf("expected status to stay completed, got %s", got.Status)
	}
}

func TestAdvance_SkipRejected(t *testing.T) {
	repo := newMockVisitRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, _ := svc.Create(ctx, uuid.New(), uuid.New(), nil, nil)
	if err := svc.Complete(ctx, reg.ID); !apperr.IsStateConflict(err) {
		t.Errorf("expected state conflict completing an unpaid visit, got %v", err)
	}
	got, _ := svc.Get(ctx, reg.ID)
	if got.Status != StatusUnpaid {
		t.Errorf("expected status to stay unpaid, got %s", got.Status)
	}
}

func TestAdvance_NotFound(t *testing.T) {
	svc := newTestService(newMockVisitRepo())
	if err := svc.OnRegistrationFeePaid(context.Background(), uuid.New()); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestWaitingList(t *testing.T) {
	repo := newMockVisitRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	doctorID := uuid.New()
	waiting, _ := svc.Create(ctx, uuid.New(), uuid.New(), &doctorID, nil)
	svc.OnRegistrationFeePaid(ctx, waiting.ID)
	svc.Create(ctx, uuid.New(), uuid.New(), &doctorID, nil) // still unpaid

	other := uuid.New()
	elsewhere, _ := svc.Create(ctx, uuid.New(), uuid.New(), &other, nil)
	svc.OnRegistrationFeePaid(ctx, elsewhere.ID)

	list, err := svc.WaitingList(ctx, doctorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 waiting visit, got %d", len(list))
	}
	if list[0].ID != waiting.ID {
		t.Errorf("expected visit %s on the list, got %s", waiting.ID, list[0].ID)
	}

	if _, err := svc.WaitingList(ctx, uuid.Nil); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for nil doctor, got %v", err)
	}
}
