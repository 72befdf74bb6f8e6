package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/examforge/practiced/internal/db"
)

func openTestDB(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "sessions.db")
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh, "test_ns")
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected absent record, ok=%v err=%v", ok, err)
	}

	deadline := time.Now().Add(time.Hour).UTC()
	sess := Session{
		ID:           "s1",
		Phase:        PhaseInProgress,
		CurrentIndex: 3,
		Answers:      map[string]string{"1": "A", "2": "D"},
		Deadline:     &deadline,
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.ID != "s1" || got.Phase != PhaseInProgress || got.CurrentIndex != 3 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Answers["2"] != "D" {
		t.Fatalf("answers lost: %+v", got.Answers)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline lost: %v", got.Deadline)
	}
}

func TestSQLStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	sess := Session{ID: "s1", Phase: PhaseNotStarted, Answers: map[string]string{}}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	sess.CurrentIndex = 5
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CurrentIndex != 5 {
		t.Fatalf("expected overwritten record, got %+v", got)
	}
}

func TestSQLStoreCorruptRecordTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	if err := store.Save(ctx, Session{ID: "s1", Phase: PhaseNotStarted}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.db.ExecContext(ctx,
		`UPDATE sessions SET state_json='{oops' WHERE namespace=$1`, store.namespace); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("corrupt record must read as absent, ok=%v err=%v", ok, err)
	}
}

func TestSQLStoreClear(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	if err := store.Save(ctx, Session{ID: "s1", Phase: PhaseNotStarted}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected absent record after clear, ok=%v err=%v", ok, err)
	}
}
