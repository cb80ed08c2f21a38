package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "batch.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item, err := store.Add(ctx, "/media/a.mkv")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.ID == 0 || item.Status != StatusPending {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.SourcePath != "/media/a.mkv" {
		t.Fatalf("got %+v", got)
	}
}

func TestAddRecordsFileSize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	source := filepath.Join(t.TempDir(), "sized.mkv")
	if err := os.WriteFile(source, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	item, err := store.Add(ctx, source)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.SizeBytes != 4096 {
		t.Fatalf("SizeBytes = %d, want 4096", item.SizeBytes)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SizeBytes != 4096 {
		t.Fatalf("persisted SizeBytes = %d, want 4096", got.SizeBytes)
	}
}

func TestAddIsIdempotentPerPath(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Add(ctx, "/media/a.mkv")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := store.Add(ctx, "/media/a.mkv")
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("duplicate insert: ids %d and %d", first.ID, second.ID)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestNextPendingOrdersByInsertion(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/media/a.mkv", "/media/b.mkv", "/media/c.mkv"} {
		if _, err := store.Add(ctx, path); err != nil {
			t.Fatalf("Add(%s): %v", path, err)
		}
	}

	item, err := store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if item.SourcePath != "/media/a.mkv" {
		t.Fatalf("next = %q", item.SourcePath)
	}

	item.Status = StatusCompleted
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	item, err = store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if item.SourcePath != "/media/b.mkv" {
		t.Fatalf("next = %q", item.SourcePath)
	}
}

func TestUpdateRoundTripsTimestamps(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item, err := store.Add(ctx, "/media/a.mkv")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	started := time.Now().UTC().Truncate(time.Millisecond)
	finished := started.Add(3 * time.Second)
	item.Status = StatusCompleted
	item.StartedAt = &started
	item.FinishedAt = &finished
	item.TracksExtracted = 2
	item.OutputFilesJSON = `["a.eng.srt","a.fra.srt"]`
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusCompleted || got.TracksExtracted != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, started)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Fatalf("finished_at = %v, want %v", got.FinishedAt, finished)
	}
	if outputs := got.Outputs(); len(outputs) != 2 || outputs[0] != "a.eng.srt" {
		t.Fatalf("outputs = %v", outputs)
	}
}

func TestResetInFlight(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item, err := store.Add(ctx, "/media/a.mkv")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	item.Status = StatusInProgress
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reset, err := store.ResetInFlight(ctx)
	if err != nil {
		t.Fatalf("ResetInFlight: %v", err)
	}
	if reset != 1 {
		t.Fatalf("reset %d items, want 1", reset)
	}
	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestSummarize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	statuses := []Status{StatusCompleted, StatusCompleted, StatusError, StatusPending}
	for i, status := range statuses {
		item, err := store.Add(ctx, filepath.Join("/media", string(rune('a'+i))+".mkv"))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := Summary{Total: 4, Completed: 2, Failed: 1, Pending: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestReopenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Completed "); !ok || status != StatusCompleted {
		t.Fatalf("ParseStatus = %v, %v", status, ok)
	}
	if _, ok := ParseStatus("bogus"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
