package quota

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/minios-linux/revkit/settings"
)

func clock(day int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.October, day, 12, 0, 0, 0, time.Local)
	}
}

func openState(t *testing.T) *settings.StateFile {
	t.Helper()
	sf, err := settings.OpenStateAt(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("OpenStateAt: %v", err)
	}
	return sf
}

func TestConsumeUntilExhausted(t *testing.T) {
	tr := &Tracker{KV: openState(t), Limit: 3, Now: clock(14)}

	for i := 0; i < 3; i++ {
		if err := tr.Check(); err != nil {
			t.Fatalf("Check #%d: %v", i, err)
		}
		if err := tr.Consume(); err != nil {
			t.Fatalf("Consume #%d: %v", i, err)
		}
	}
	if err := tr.Check(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Check after limit = %v, want ErrExhausted", err)
	}
	if err := tr.Consume(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Consume after limit = %v, want ErrExhausted", err)
	}
	used, limit, err := tr.Status()
	if err != nil || used != 3 || limit != 3 {
		t.Fatalf("Status = (%d, %d, %v), want (3, 3, nil)", used, limit, err)
	}
}

func TestCheckDoesNotConsume(t *testing.T) {
	tr := &Tracker{KV: openState(t), Limit: 1, Now: clock(14)}
	for i := 0; i < 5; i++ {
		if err := tr.Check(); err != nil {
			t.Fatalf("Check #%d: %v", i, err)
		}
	}
	if used, _, _ := tr.Status(); used != 0 {
		t.Fatalf("used = %d, want 0", used)
	}
}

func TestStaleDateResets(t *testing.T) {
	kv := openState(t)
	if err := kv.Put(StateKey, State{Count: 100, Date: "2026-10-13"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	tr := &Tracker{KV: kv, Limit: 100, Now: clock(14)}
	if err := tr.Check(); err != nil {
		t.Fatalf("Check on a new day: %v", err)
	}

	var st State
	if !kv.Get(StateKey, &st) || st.Count != 0 || st.Date != "2026-10-14" {
		t.Fatalf("persisted state = %+v, want reset to 2026-10-14", st)
	}
}

func TestCountSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	kv, err := settings.OpenStateAt(path)
	if err != nil {
		t.Fatalf("OpenStateAt: %v", err)
	}
	tr := &Tracker{KV: kv, Limit: 2, Now: clock(14)}
	if err := tr.Consume(); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	reopened, err := settings.OpenStateAt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tr = &Tracker{KV: reopened, Limit: 2, Now: clock(14)}
	if used, _, _ := tr.Status(); used != 1 {
		t.Fatalf("used after reopen = %d, want 1", used)
	}
}

func TestDefaultLimit(t *testing.T) {
	tr := &Tracker{KV: openState(t), Now: clock(14)}
	if _, limit, _ := tr.Status(); limit != DefaultLimit {
		t.Fatalf("limit = %d, want %d", limit, DefaultLimit)
	}
}
