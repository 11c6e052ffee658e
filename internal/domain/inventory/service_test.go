package inventory

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

// mockDrugRepo mirrors the guarded-decrement semantics of the SQL repository:
// the stock check and the write happen under one lock acquisition.
type mockDrugRepo struct {
	mu            sync.Mutex
	items         map[uuid.UUID]*Drug
	prescriptions map[uuid.UUID]int
}

func newMockDrugRepo() *mockDrugRepo {
	return &mockDrugRepo{
		items:         make(map[uuid.UUID]*Drug),
		prescriptions: make(map[uuid.UUID]int),
	}
}

func (m *mockDrugRepo) Create(_ context.Context, d *Drug) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.New()
	m.items[d.ID] = d
	return nil
}

func (m *mockDrugRepo) GetByID(_ context.Context, id uuid.UUID) (*Drug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("drug", id.String())
	}
	copy := *d
	return &copy, nil
}

func (m *mockDrugRepo) GetByCode(_ context.Context, code string) (*Drug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.items {
		if d.Code == code {
			copy := *d
			return &copy, nil
		}
	}
	return nil, apperr.NotFound("drug", code)
}

func (m *mockDrugRepo) List(_ context.Context, limit, offset int) ([]*Drug, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Drug
	for _, d := range m.items {
		copy := *d
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, len(result), nil
}

func (m *mockDrugRepo) Deduct(_ context.Context, id uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return apperr.NotFound("drug", id.String())
	}
	if d.StoredQuantity < quantity {
		return &apperr.InsufficientStockError{
			DrugName:  d.Name,
			Required:  quantity,
			Available: d.StoredQuantity,
		}
	}
	d.StoredQuantity -= quantity
	return nil
}

func (m *mockDrugRepo) Restock(_ context.Context, id uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return apperr.NotFound("drug", id.String())
	}
	d.StoredQuantity += quantity
	return nil
}

func (m *mockDrugRepo) ListBelowThreshold(_ context.Context, threshold int) ([]*Drug, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Drug
	for _, d := range m.items {
		if d.StoredQuantity < threshold {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDrugRepo) ReferencingPrescriptions(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prescriptions[id], nil
}

func (m *mockDrugRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("drug", id.String())
	}
	delete(m.items, id)
	return nil
}

func addTestDrug(t *testing.T, repo *mockDrugRepo, name string, qty int) *Drug {
	t.Helper()
	d := &Drug{Name: name, Code: "C-" + name, UnitPrice: 2.5, StoredQuantity: qty}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("create drug: %v", err)
	}
	return d
}

func TestAddDrug(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)

	d := &Drug{Name: "Amoxicillin", Code: "AMX-500", UnitPrice: 3.2, StoredQuantity: 100}
	if err := svc.AddDrug(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected drug id to be assigned")
	}
}

func TestAddDrug_Validation(t *testing.T) {
	svc := NewService(newMockDrugRepo(), 0)
	ctx := context.Background()

	cases := []struct {
		name string
		drug *Drug
	}{
		{"missing name", &Drug{Code: "X", UnitPrice: 1}},
		{"missing code", &Drug{Name: "X", UnitPrice: 1}},
		{"zero price", &Drug{Name: "X", Code: "X", UnitPrice: 0}},
		{"negative price", &Drug{Name: "X", Code: "X", UnitPrice: -2}},
		{"negative stock", &Drug{Name: "X", Code: "X", UnitPrice: 1, StoredQuantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.AddDrug(ctx, tc.drug)
			if !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddDrug_DuplicateCode(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()

	first := &Drug{Name: "Aspirin", Code: "ASP-100", UnitPrice: 1.5}
	if err := svc.AddDrug(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := &Drug{Name: "Aspirin Forte", Code: "ASP-100", UnitPrice: 2.5}
	if err := svc.AddDrug(ctx, second); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for duplicate code, got %v", err)
	}
}

func TestDeduct(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()
	d := addTestDrug(t, repo, "Ibuprofen", 10)

	if err := svc.Deduct(ctx, d.ID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, d.ID)
	if got.StoredQuantity != 6 {
		t.Errorf("expected stock 6, got %d", got.StoredQuantity)
	}
}

func TestDeduct_InsufficientStock(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()
	d := addTestDrug(t, repo, "Ibuprofen", 2)

	err := svc.Deduct(ctx, d.ID, 3)
	is, ok := apperr.AsInsufficientStock(err)
	if !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if is.DrugName != "Ibuprofen" || is.Required != 3 || is.Available != 2 {
		t.Errorf("unexpected fields: %+v", is)
	}

	// Stock untouched after a failed deduction.
	got, _ := repo.GetByID(ctx, d.ID)
	if got.StoredQuantity != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got.StoredQuantity)
	}
}

func TestDeduct_NotFound(t *testing.T) {
	svc := NewService(newMockDrugRepo(), 0)
	err := svc.Deduct(context.Background(), uuid.New(), 1)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestDeduct_ZeroQuantity(t *testing.T) {
	svc := NewService(newMockDrugRepo(), 0)
	err := svc.Deduct(context.Background(), uuid.New(), 0)
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// Concurrent deductions against stock=5 must yield exactly 5 successes and
// never drive stock negative.
func TestDeduct_Concurrent(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()
	d := addTestDrug(t, repo, "Paracetamol", 5)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Deduct(ctx, d.ID, 1)
		}(i)
	}
	wg.Wait()

	successes, shortfalls := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			if _, ok := apperr.AsInsufficientStock(err); !ok {
				t.Fatalf("unexpected error: %v", err)
			}
			shortfalls++
		}
	}
	if successes != 5 {
		t.Errorf("expected 5 successes, got %d", successes)
	}
	if shortfalls != n-5 {
		t.Errorf("expected %d shortfalls, got %d", n-5, shortfalls)
	}
	got, _ := repo.GetByID(ctx, d.ID)
	if got.StoredQuantity != 0 {
		t.Errorf("expected final stock 0, got %d", got.StoredQuantity)
	}
}

func TestRestock(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()
	d := addTestDrug(t, repo, "Cetirizine", 3)

	if err := svc.Restock(ctx, d.ID, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, d.ID)
	if got.StoredQuantity != 10 {
		t.Errorf("expected stock 10, got %d", got.StoredQuantity)
	}

	if err := svc.Restock(ctx, d.ID, 0); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for zero restock, got %v", err)
	}
}

func TestLowStock_SeverityBands(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()

	addTestDrug(t, repo, "A-Empty", 0)
	addTestDrug(t, repo, "B-Critical", 3)
	addTestDrug(t, repo, "C-Low", 9)
	addTestDrug(t, repo, "D-Fine", 15)

	items, err := svc.LowStock(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 low-stock drugs, got %d", len(items))
	}

	want := []StockSeverity{SeverityOutOfStock, SeverityCritical, SeverityLow}
	for i, sev := range want {
		if items[i].Severity != sev {
			t.Errorf("item %d (%s): expected severity %s, got %s", i, items[i].Name, sev, items[i].Severity)
		}
	}
}

func TestLowStock_DefaultThreshold(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	addTestDrug(t, repo, "A", 9)
	addTestDrug(t, repo, "B", 11)

	items, err := svc.LowStock(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 drug below default threshold, got %d", len(items))
	}
}

func TestLowStock_ConfiguredThreshold(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 5)
	addTestDrug(t, repo, "A", 4)
	addTestDrug(t, repo, "B", 6)

	items, err := svc.LowStock(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 drug below configured threshold, got %d", len(items))
	}
	if items[0].Name != "A" {
		t.Errorf("expected drug A, got %s", items[0].Name)
	}
}

func TestDeleteDrug_RestrictedByPrescriptions(t *testing.T) {
	repo := newMockDrugRepo()
	svc := NewService(repo, 0)
	ctx := context.Background()
	d := addTestDrug(t, repo, "Codeine", 5)
	repo.prescriptions[d.ID] = 2

	err := svc.DeleteDrug(ctx, d.ID)
	if !apperr.IsStateConflict(err) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	repo.prescriptions[d.ID] = 0
	if err := svc.DeleteDrug(ctx, d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, d.ID); !apperr.IsNotFound(err) {
		t.Error("expected drug to be gone")
	}
}
