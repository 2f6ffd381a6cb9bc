package runstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/celiapp/catalog/internal/domain"
)

func testReport(id string, startedAt time.Time) *domain.RunReport {
	return &domain.RunReport{
		RunID:     id,
		StartedAt: startedAt,
		Schema: domain.SchemaReport{
			Index:            domain.FieldIndex{domain.FieldBrandName: 0, domain.FieldProductName: 1},
			UnmatchedHeaders: []string{"Notes"},
		},
		InputRows:        10,
		Records:          9,
		Clusters:         2,
		CanonicalRecords: 7,
		Reconcile: &domain.ReconcileReport{
			BackupRecords: 4,
			Matched:       3,
			Unmatched:     []domain.UnmatchedRecord{{Row: 2, BrandName: "Absolut", BestScore: 0.5}},
		},
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	report := testReport("run-1", time.Now())
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == report {
		t.Error("Get() returned the saved pointer, want an independent copy")
	}
	if got.RunID != "run-1" || got.CanonicalRecords != 7 {
		t.Errorf("Get() = %+v, want run-1 with 7 canonical records", got)
	}
	if got.Schema.Index[domain.FieldProductName] != 1 {
		t.Errorf("Schema.Index = %v, want product_name at 1", got.Schema.Index)
	}
	if got.Reconcile == nil || got.Reconcile.Unmatched[0].BrandName != "Absolut" {
		t.Errorf("Reconcile = %+v, want unmatched Absolut", got.Reconcile)
	}

	// Changing the caller's report does not reach the store
	report.Records = 0
	got, _ = store.Get(ctx, "run-1")
	if got.Records != 9 {
		t.Errorf("Records = %d after caller mutation, want 9", got.Records)
	}
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrRunNotFound)
	}
}

func TestMemoryStore_Save_Invalid(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, nil); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Save(nil) error = %v, want %v", err, domain.ErrInvalidRequest)
	}
	if err := store.Save(ctx, &domain.RunReport{}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Save(no id) error = %v, want %v", err, domain.ErrInvalidRequest)
	}
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, testReport("short", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Wait for expiration
	time.Sleep(10 * time.Millisecond)

	if _, err := store.Get(ctx, "short"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Get() after expiration error = %v, want %v", err, domain.ErrRunNotFound)
	}
	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() = %d runs after expiration, want 0", len(runs))
	}

	if size := store.Size(); size != 1 {
		t.Errorf("Size() = %d before cleanup, want 1", size)
	}
	store.removeExpired(time.Now())
	if size := store.Size(); size != 0 {
		t.Errorf("Size() = %d after cleanup, want 0", size)
	}
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Save(ctx, testReport(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{"newest first", 3, []string{"run-4", "run-3", "run-2"}},
		{"limit above size", 10, []string{"run-4", "run-3", "run-2", "run-1", "run-0"}},
		{"single", 1, []string{"run-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(runs) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d runs, want %d", len(runs), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if runs[i].RunID != id {
					t.Errorf("runs[%d] = %s, want %s", i, runs[i].RunID, id)
				}
			}
		})
	}

	t.Run("non-positive limit is invalid", func(t *testing.T) {
		if _, err := store.List(ctx, 0); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("List(0) error = %v, want %v", err, domain.ErrInvalidRequest)
		}
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	// Test concurrent access
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			runID := fmt.Sprintf("run-%d", id)
			if err := store.Save(ctx, testReport(runID, time.Now())); err != nil {
				t.Errorf("Concurrent Save() error = %v", err)
			}
			if _, err := store.Get(ctx, runID); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			if _, err := store.List(ctx, 5); err != nil {
				t.Errorf("Concurrent List() error = %v", err)
			}
			done <- true
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	if size := store.Size(); size != 10 {
		t.Errorf("Size() = %d, want 10", size)
	}
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
