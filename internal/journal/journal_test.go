package journal

import (
	"path/filepath"
	"testing"

	"github.com/talgya/windward/internal/sim"
	"github.com/talgya/windward/internal/units"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func testInit() *sim.WorldInit {
	return &sim.WorldInit{
		Seed:    42,
		Setting: sim.Setting{EdgeLength: 32, ResourceDensity: 0.2},
	}
}

func TestBeginRunAssignsIDs(t *testing.T) {
	j := openTemp(t)

	a, err := j.BeginRun(testInit())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := j.BeginRun(testInit())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a == b {
		t.Fatalf("both runs got id %d", a)
	}
}

func TestRecordAndReadEvents(t *testing.T) {
	j := openTemp(t)
	runID, err := j.BeginRun(testInit())
	if err != nil {
		t.Fatal(err)
	}

	events := []sim.Event{
		{Kind: sim.EventFishy},
		{Kind: sim.EventTileCollision, Speed: 2.5},
	}
	if err := j.RecordEvents(runID, units.Tick(7), events); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := j.RecentEvents(runID, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Newest first.
	if rows[0].Kind != uint8(sim.EventTileCollision) || rows[0].Tick != 7 {
		t.Fatalf("unexpected newest row: %+v", rows[0])
	}
	if rows[0].Speed != 2.5 {
		t.Fatalf("speed = %v, want 2.5", rows[0].Speed)
	}
}

func TestRecordEventsEmptyIsNoOp(t *testing.T) {
	j := openTemp(t)
	runID, err := j.BeginRun(testInit())
	if err != nil {
		t.Fatal(err)
	}

	if err := j.RecordEvents(runID, 1, nil); err != nil {
		t.Fatalf("empty record: %v", err)
	}
	rows, err := j.RecentEvents(runID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want none", len(rows))
	}
}

func TestEventsScopedToRun(t *testing.T) {
	j := openTemp(t)
	first, _ := j.BeginRun(testInit())
	second, _ := j.BeginRun(testInit())

	if err := j.RecordEvents(first, 1, []sim.Event{{Kind: sim.EventGrass}}); err != nil {
		t.Fatal(err)
	}

	rows, err := j.RecentEvents(second, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("run %d sees %d foreign events", second, len(rows))
	}
}

func TestRecordSnapshot(t *testing.T) {
	j := openTemp(t)
	runID, err := j.BeginRun(testInit())
	if err != nil {
		t.Fatal(err)
	}

	state := &sim.WorldState{Timestamp: 120}
	if err := j.RecordSnapshot(runID, state); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	var count int
	if err := j.conn.Get(&count, "SELECT COUNT(*) FROM snapshots WHERE run_id = ?", runID); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("snapshot count = %d, want 1", count)
	}
}
