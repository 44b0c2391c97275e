package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "attempts.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "gym.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestBestExitsOrdering(t *testing.T) {
	store := openTemp(t)

	attempts := []Attempt{
		{Level: "level.json", Reason: "exit", Elapsed: 41 * time.Second, Seed: 7},
		{Level: "level.json", Reason: "death", Elapsed: 3 * time.Second},
		{Level: "level.json", Reason: "exit", Elapsed: 27500 * time.Millisecond, Seed: 9},
		{Level: "level.json", Reason: "timeout", Elapsed: 60 * time.Second},
		{Level: "other.json", Reason: "exit", Elapsed: time.Second},
	}
	ids := map[string]bool{}
	for _, a := range attempts {
		id, err := store.SaveAttempt(a)
		if err != nil {
			t.Fatalf("SaveAttempt() failed: %v", err)
		}
		if id == "" || ids[id] {
			t.Fatalf("expected a fresh id, got %q", id)
		}
		ids[id] = true
	}

	best, err := store.BestExits("level.json", 10)
	if err != nil {
		t.Fatalf("BestExits() failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 exits, got %d", len(best))
	}
	if best[0].Elapsed != 27500*time.Millisecond || best[0].Seed != 9 {
		t.Errorf("unexpected fastest exit %+v", best[0])
	}
	if best[1].Elapsed != 41*time.Second {
		t.Errorf("unexpected second exit %+v", best[1])
	}

	limited, err := store.BestExits("level.json", 1)
	if err != nil {
		t.Fatalf("BestExits() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit 1, got %d", len(limited))
	}
}

func TestCounts(t *testing.T) {
	store := openTemp(t)
	for _, reason := range []string{"death", "death", "timeout", "exit", "death"} {
		if _, err := store.SaveAttempt(Attempt{Level: "level.json", Reason: reason}); err != nil {
			t.Fatalf("SaveAttempt() failed: %v", err)
		}
	}

	counts, err := store.Counts("level.json")
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	tests := map[string]int{"death": 3, "timeout": 1, "exit": 1}
	for reason, want := range tests {
		if counts[reason] != want {
			t.Errorf("counts[%s] = %d, want %d", reason, counts[reason], want)
		}
	}

	empty, err := store.Counts("missing.json")
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no counts, got %v", empty)
	}
}

func TestClosedStore(t *testing.T) {
	store := openTemp(t)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, err := store.SaveAttempt(Attempt{Level: "x", Reason: "exit"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
}

func TestLevelNamesAreCleaned(t *testing.T) {
	store := openTemp(t)
	if _, err := store.SaveAttempt(Attempt{Level: "level.json", Reason: "exit", Elapsed: 30 * time.Second}); err != nil {
		t.Fatalf("SaveAttempt() failed: %v", err)
	}
	if _, err := store.SaveAttempt(Attempt{Level: "levels/level", Reason: "death"}); err != nil {
		t.Fatalf("SaveAttempt() failed: %v", err)
	}

	for _, name := range []string{"level", "level.json", "levels/level.json"} {
		best, err := store.BestExits(name, 10)
		if err != nil {
			t.Fatalf("BestExits(%q) failed: %v", name, err)
		}
		if len(best) != 1 || best[0].Level != "level.json" {
			t.Errorf("BestExits(%q) = %+v, want one exit on level.json", name, best)
		}
		counts, err := store.Counts(name)
		if err != nil {
			t.Fatalf("Counts(%q) failed: %v", name, err)
		}
		if counts["exit"] != 1 || counts["death"] != 1 {
			t.Errorf("Counts(%q) = %v", name, counts)
		}
	}
}
