package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"telegram-dispatch/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func sampleDispatch(createdAt time.Time) *database.Dispatch {
	return &database.Dispatch{
		WorkflowOwner:       "uploader-org",
		WorkflowRepo:        "uploader",
		WorkflowFile:        "telegram-uploader.yml",
		WorkflowRef:         "main",
		ChangelogRepository: "owner/repo",
		Status:              database.StatusForwarded,
		DurationMS:          412,
		CreatedAt:           createdAt,
	}
}

func TestSaveAndRecentDispatches(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	older := sampleDispatch(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	newer := sampleDispatch(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	newer.Status = database.StatusFailed
	newer.ErrorCode = "API"

	if err := store.SaveDispatch(ctx, older); err != nil {
		t.Fatalf("SaveDispatch() failed: %v", err)
	}
	if err := store.SaveDispatch(ctx, newer); err != nil {
		t.Fatalf("SaveDispatch() failed: %v", err)
	}
	if older.ID == 0 || newer.ID == 0 {
		t.Errorf("SaveDispatch() did not assign IDs: %d, %d", older.ID, newer.ID)
	}

	records, err := store.RecentDispatches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentDispatches() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("RecentDispatches() returned %d records, want 2", len(records))
	}
	if records[0].Status != database.StatusFailed {
		t.Errorf("newest record status = %q, want %q (newest first ordering)", records[0].Status, database.StatusFailed)
	}
	if records[0].ErrorCode != "API" {
		t.Errorf("newest record error code = %q, want API", records[0].ErrorCode)
	}
	if records[1].ChangelogRepository != "owner/repo" {
		t.Errorf("record changelog repository = %q, want owner/repo", records[1].ChangelogRepository)
	}
}

func TestSaveDispatchValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveDispatch(ctx, nil); err == nil {
		t.Error("SaveDispatch(nil) succeeded, want error")
	}

	missingWorkflow := sampleDispatch(time.Now().UTC())
	missingWorkflow.WorkflowRepo = ""
	if err := store.SaveDispatch(ctx, missingWorkflow); err == nil {
		t.Error("SaveDispatch() without workflow repo succeeded, want error")
	}

	missingStatus := sampleDispatch(time.Now().UTC())
	missingStatus.Status = ""
	if err := store.SaveDispatch(ctx, missingStatus); err == nil {
		t.Error("SaveDispatch() without status succeeded, want error")
	}
}

func TestPurgeDispatchesBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	old := sampleDispatch(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	recent := sampleDispatch(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := store.SaveDispatch(ctx, old); err != nil {
		t.Fatalf("SaveDispatch() failed: %v", err)
	}
	if err := store.SaveDispatch(ctx, recent); err != nil {
		t.Fatalf("SaveDispatch() failed: %v", err)
	}

	removed, err := store.PurgeDispatchesBefore(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PurgeDispatchesBefore() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("PurgeDispatchesBefore() removed %d records, want 1", removed)
	}

	records, err := store.RecentDispatches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentDispatches() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("RecentDispatches() returned %d records after purge, want 1", len(records))
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() failed: %v", err)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain path", input: "dispatch.db", want: "dispatch.db"},
		{name: "file prefix", input: "file:dispatch.db", want: "dispatch.db"},
		{name: "query parameters", input: "dispatch.db?cache=shared", want: "dispatch.db"},
		{name: "escaped path", input: "data%20dir/dispatch.db", want: "data dir/dispatch.db"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := database.ExtractDBNameFromPath(tc.input); got != tc.want {
				t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
