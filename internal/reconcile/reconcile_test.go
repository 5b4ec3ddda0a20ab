package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evelogos/alliancelogos/internal/database"
	"github.com/evelogos/alliancelogos/internal/esi"
)

type mockCatalog struct {
	ids     []int64
	details map[int64]*esi.AllianceDetail
	errs    map[int64]error
	fetches int
}

func (m *mockCatalog) AllianceIDs(_ context.Context) ([]int64, error) {
	return m.ids, nil
}

func (m *mockCatalog) Alliance(_ context.Context, id int64) (*esi.AllianceDetail, error) {
	m.fetches++
	if err, ok := m.errs[id]; ok {
		return nil, err
	}
	if d, ok := m.details[id]; ok {
		return d, nil
	}
	return nil, &esi.StatusError{Code: 404}
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReconcileInsertsMissing(t *testing.T) {
	db := openTestDB(t)
	cat := &mockCatalog{
		ids: []int64{1, 2},
		details: map[int64]*esi.AllianceDetail{
			1: {Name: "One", Ticker: "ONE", DateFounded: "2024-06-01"},
			2: {Name: "Two", Ticker: "TWO", DateFounded: "2024-07-01"},
		},
	}

	result, err := New(db, cat).Reconcile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 2 {
		t.Errorf("expected 2 inserts, got %d", result.Inserted)
	}

	a, _ := db.GetAlliance(1)
	if a == nil || *a.Ticker != "ONE" || *a.StartDate != "2024-06-01" {
		t.Errorf("unexpected record %+v", a)
	}
	if a.HasCustomLogo != nil {
		t.Error("expected logo state to start unknown")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	db := openTestDB(t)
	cat := &mockCatalog{
		ids: []int64{1},
		details: map[int64]*esi.AllianceDetail{
			1: {Ticker: "ONE", DateFounded: "2024-06-01"},
		},
	}
	rec := New(db, cat)

	if _, err := rec.Reconcile(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	fetchesAfterFirst := cat.fetches

	result, err := rec.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Inserted != 0 {
		t.Errorf("expected 0 inserts on second run, got %d", result.Inserted)
	}
	if cat.fetches != fetchesAfterFirst {
		t.Errorf("expected no metadata fetches on second run, got %d more",
			cat.fetches-fetchesAfterFirst)
	}
}

func TestReconcileSkipsFailedIDs(t *testing.T) {
	db := openTestDB(t)
	cat := &mockCatalog{
		ids: []int64{1, 2, 3},
		details: map[int64]*esi.AllianceDetail{
			1: {Ticker: "ONE", DateFounded: "2024-06-01"},
			3: {Ticker: "TRI", DateFounded: "2024-08-01"},
		},
		errs: map[int64]error{
			2: errors.New("connection reset"),
		},
	}

	result, err := New(db, cat).Reconcile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 2 {
		t.Errorf("expected 2 inserts, got %d", result.Inserted)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", result.Failed)
	}

	// No partial record for the failed id: it is retried next run.
	a, _ := db.GetAlliance(2)
	if a != nil {
		t.Errorf("expected no record for failed id, got %+v", a)
	}
}

func TestReconcileMissingMetadataFields(t *testing.T) {
	db := openTestDB(t)
	cat := &mockCatalog{
		ids: []int64{1},
		details: map[int64]*esi.AllianceDetail{
			1: {Name: "No Meta"},
		},
	}

	if _, err := New(db, cat).Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := db.GetAlliance(1)
	if a == nil {
		t.Fatal("expected record to exist")
	}
	if a.Ticker != nil || a.StartDate != nil {
		t.Errorf("expected absent fields stored as null, got %+v", a)
	}
}
