package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestInsertAlliance(t *testing.T) {
	db := openTestDB(t)
	inserted, err := db.InsertAlliance(99000001, ptr("TEST"), ptr("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected insert to report a new row")
	}

	a, err := db.GetAlliance(99000001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("expected alliance to exist")
	}
	if a.Ticker == nil || *a.Ticker != "TEST" {
		t.Errorf("unexpected ticker %v", a.Ticker)
	}
	if a.HasCustomLogo != nil {
		t.Error("expected logo state to start unknown")
	}
}

func TestInsertAllianceFirstWriteWins(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(99000001, ptr("AAA"), ptr("2024-06-01"))

	inserted, err := db.InsertAlliance(99000001, ptr("BBB"), ptr("2025-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Error("expected duplicate insert to be a no-op")
	}

	a, _ := db.GetAlliance(99000001)
	if *a.Ticker != "AAA" {
		t.Errorf("expected original ticker to survive, got %q", *a.Ticker)
	}
}

func TestInsertAllianceNullMetadata(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertAlliance(99000002, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := db.GetAlliance(99000002)
	if a.Ticker != nil || a.StartDate != nil {
		t.Error("expected null metadata to stay null")
	}
}

func TestKnownIDs(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, nil, nil)
	db.InsertAlliance(2, nil, nil)

	ids, err := db.KnownIDs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 known ids, got %d", len(ids))
	}
	if _, ok := ids[1]; !ok {
		t.Error("expected id 1 to be known")
	}
}

func TestUnflaggedAlliances(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("ONE"), ptr("2024-01-01"))
	db.InsertAlliance(2, ptr("TWO"), ptr("2024-02-01"))
	db.MarkLogoDetected(2, 12000, "2025-01-01")

	unflagged, err := db.UnflaggedAlliances()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unflagged) != 1 {
		t.Fatalf("expected 1 unflagged alliance, got %d", len(unflagged))
	}
	if unflagged[0].ID != 1 {
		t.Errorf("expected alliance 1, got %d", unflagged[0].ID)
	}
}

func TestMarkLogoDetected(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("ONE"), ptr("2024-01-01"))

	if err := db.MarkLogoDetected(1, 12000, "2025-03-04"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := db.GetAlliance(1)
	if !a.HasLogo() {
		t.Error("expected logo to be confirmed")
	}
	if a.Size == nil || *a.Size != 12000 {
		t.Errorf("unexpected size %v", a.Size)
	}
	if a.LogoSince == nil || *a.LogoSince != "2025-03-04" {
		t.Errorf("unexpected logo_since %v", a.LogoSince)
	}
}

func TestMarkLogoDetectedMonotonic(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("ONE"), ptr("2024-01-01"))
	db.MarkLogoDetected(1, 12000, "2025-03-04")

	// A later run must never move the first-seen date.
	if err := db.MarkLogoDetected(1, 15000, "2025-03-05"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := db.GetAlliance(1)
	if *a.LogoSince != "2025-03-04" {
		t.Errorf("logo_since changed to %q, want 2025-03-04", *a.LogoSince)
	}
	if *a.Size != 12000 {
		t.Errorf("size changed to %d, want 12000", *a.Size)
	}
}

func TestEligibleAlliances(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("ONE"), ptr("2024-01-01"))
	db.InsertAlliance(2, ptr("TWO"), nil) // no start date: never eligible
	db.InsertAlliance(3, ptr("TRI"), ptr("2024-03-01"))
	db.MarkLogoDetected(1, 12000, "2025-01-02")
	db.MarkLogoDetected(2, 13000, "2025-01-02")

	eligible, err := db.EligibleAlliances()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible alliance, got %d", len(eligible))
	}
	if eligible[0].ID != 1 {
		t.Errorf("expected alliance 1, got %d", eligible[0].ID)
	}
}

func TestEligibleAlliancesOrdering(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("BBB"), ptr("2024-01-01"))
	db.InsertAlliance(2, ptr("AAA"), ptr("2024-01-01"))
	db.InsertAlliance(3, ptr("CCC"), ptr("2023-01-01"))
	db.MarkLogoDetected(1, 1000, "2025-01-01")
	db.MarkLogoDetected(2, 1000, "2025-01-01")
	db.MarkLogoDetected(3, 1000, "2025-01-02")

	eligible, err := db.EligibleAlliances()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []int64
	for _, a := range eligible {
		got = append(got, a.ID)
	}
	// logo_since desc, then start_date asc, then ticker asc
	want := []int64{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	db.InsertAlliance(1, ptr("ONE"), ptr("2024-01-01"))
	db.InsertAlliance(2, ptr("TWO"), ptr("2024-02-01"))
	db.MarkLogoDetected(1, 12000, "2025-01-02")

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAlliances != 2 {
		t.Errorf("expected 2 alliances, got %d", stats.TotalAlliances)
	}
	if stats.WithLogo != 1 {
		t.Errorf("expected 1 with logo, got %d", stats.WithLogo)
	}
	if stats.Unclassified != 1 {
		t.Errorf("expected 1 unclassified, got %d", stats.Unclassified)
	}
	if stats.NewestLogo == nil || *stats.NewestLogo != "2025-01-02" {
		t.Errorf("unexpected newest logo %v", stats.NewestLogo)
	}
}
