package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"adaptkit/internal/domain"
	"adaptkit/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func sampleReport(model string) *domain.Report {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Report{
		Model:    model,
		Adapters: []string{"text", "json"},
		Units: []domain.UnitReport{
			{
				Variant: "v1",
				Elements: []domain.ElementRecord{
					{Adapter: "text", Type: "text.line", Value: "hello"},
					{Adapter: "json", Type: "json.value", Value: "$.name=demo"},
				},
			},
			{Variant: "empty", Elements: []domain.ElementRecord{}},
			{
				Variant: "v2",
				Elements: []domain.ElementRecord{
					{Adapter: "text", Type: "text.line", Value: "world"},
				},
			},
		},
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullToString(t *testing.T) {
	tests := []struct {
		name     string
		input    sql.NullString
		expected string
	}{
		{"valid", sql.NullString{String: "x", Valid: true}, "x"},
		{"null", sql.NullString{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, tt.expected, nullToString(tt.input))
		})
	}
}

func TestTimeToNull(t *testing.T) {
	assertEqual(t, false, timeToNull(time.Time{}).Valid)
	assertEqual(t, time.Time{}, nullToTime(sql.NullInt64{}))

	now := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	assertEqual(t, now, nullToTime(timeToNull(now)))
}

func TestMarshalToNull(t *testing.T) {
	ns, err := marshalToNull(nil)
	assertNoError(t, err)
	assertEqual(t, false, ns.Valid)

	ns, err = marshalToNull([]string{"a", "b"})
	assertNoError(t, err)
	assertEqual(t, `["a","b"]`, ns.String)

	var back []string
	assertNoError(t, unmarshalJSONField(ns, &back))
	assertEqual(t, []string{"a", "b"}, back)
}

func TestDSN(t *testing.T) {
	assertEqual(t, ":memory:?_pragma=foreign_keys(1)", dsn(MemoryPath))
	assertEqual(t,
		"runs.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		dsn("runs.db"))
}

// ============================================================================
// Run Tests
// ============================================================================

func TestSaveAndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	report := sampleReport("products")
	id, err := repo.SaveRun(ctx, report)
	assertNoError(t, err)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	assertEqual(t, id, report.ID)

	got, err := repo.GetRun(ctx, id)
	assertNoError(t, err)
	assertEqual(t, report, got)
}

func TestSaveRun_Canceled(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	report := sampleReport("partial")
	report.Canceled = true
	report.Units = report.Units[:1]
	report.FinishedAt = time.Time{}

	id, err := repo.SaveRun(ctx, report)
	assertNoError(t, err)

	got, err := repo.GetRun(ctx, id)
	assertNoError(t, err)
	assertEqual(t, true, got.Canceled)
	assertEqual(t, 1, len(got.Units))
	assertEqual(t, true, got.FinishedAt.IsZero())
}

func TestSaveRun_NoAdaptersNoUnits(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	report := domain.NewReport("nothing")
	id, err := repo.SaveRun(ctx, report)
	assertNoError(t, err)

	got, err := repo.GetRun(ctx, id)
	assertNoError(t, err)
	assertEqual(t, []string{}, got.Adapters)
	assertEqual(t, []domain.UnitReport{}, got.Units)
}

func TestSaveRun_Nil(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveRun(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil report")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRun(context.Background(), 42)
	if !errors.Is(err, repository.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, model := range []string{"first", "second", "third"} {
		_, err := repo.SaveRun(ctx, sampleReport(model))
		assertNoError(t, err)
	}

	runs, err := repo.ListRuns(ctx, 0)
	assertNoError(t, err)
	assertEqual(t, 3, len(runs))
	assertEqual(t, "third", runs[0].Model)
	assertEqual(t, "first", runs[2].Model)
	assertEqual(t, 3, runs[0].Units)
	assertEqual(t, 3, runs[0].Elements)

	limited, err := repo.ListRuns(ctx, 2)
	assertNoError(t, err)
	assertEqual(t, 2, len(limited))
	assertEqual(t, "second", limited[1].Model)
}

func TestListRuns_MatchesSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	report := sampleReport("summary")
	_, err := repo.SaveRun(ctx, report)
	assertNoError(t, err)

	runs, err := repo.ListRuns(ctx, 1)
	assertNoError(t, err)
	assertEqual(t, []domain.RunSummary{report.Summary()}, runs)
}

func TestFileDatabase_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	ctx := context.Background()

	repo, err := New(path)
	assertNoError(t, err)
	id, err := repo.SaveRun(ctx, sampleReport("persisted"))
	assertNoError(t, err)
	assertNoError(t, repo.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRun(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "persisted", got.Model)
	assertEqual(t, 3, got.ElementCount())
}
