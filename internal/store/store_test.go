package store

import (
	"path/filepath"
	"testing"
	"time"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})
	return st
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening must not re-apply migrations.
	st, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer st.Close()

	plan, err := MigrationPlan(st.db)
	if err != nil {
		t.Fatalf("migration plan: %v", err)
	}
	if len(plan.Pending) != 0 {
		t.Fatalf("expected no pending migrations, got %d", len(plan.Pending))
	}
	if plan.CurrentVersion != plan.AvailableVersion {
		t.Fatalf("expected current version %d to match available %d", plan.CurrentVersion, plan.AvailableVersion)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	parsed, err := parseTime(formatTime(now))
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	if !parsed.Equal(now) {
		t.Fatalf("time round trip mismatch: %v != %v", parsed, now)
	}

	zero, err := parseTime("")
	if err != nil {
		t.Fatalf("parse empty time: %v", err)
	}
	if !zero.IsZero() {
		t.Fatalf("expected zero time, got %v", zero)
	}
}
