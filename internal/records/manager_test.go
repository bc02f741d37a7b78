package records

import (
	"testing"
	"time"

	"github.com/kingrea/dicebox/internal/dice"
)

type fixedSource struct{}

func (fixedSource) IntN(n int) int { return n - 1 }

func newRecord(t *testing.T, ids *dice.Sequence, d6 int) *dice.Record {
	t.Helper()
	state := dice.NewState(dice.DefaultLimits())
	state.SetCount(dice.D6, d6)
	state.SetModifier(1)
	rec, err := state.Roll(fixedSource{}, ids, time.Now())
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	return rec
}

func fill(t *testing.T, m *Manager, ids *dice.Sequence, n int) []*dice.Record {
	t.Helper()
	var out []*dice.Record
	for i := 0; i < n; i++ {
		rec := newRecord(t, ids, 1+i%3)
		m.Add(rec)
		out = append(out, rec)
	}
	return out
}

func rowIDs(m *Manager) []uint64 {
	var ids []uint64
	for _, row := range m.Rows() {
		ids = append(ids, row.Record.ID())
	}
	return ids
}

func windowIDs(m *Manager) []uint64 {
	var ids []uint64
	for _, w := range m.Windows() {
		ids = append(ids, w.Record.ID())
	}
	return ids
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewFallsBackToDefaultLimit(t *testing.T) {
	if got := New(0).Limit(); got != DefaultLimit {
		t.Fatalf("Limit() = %d, want %d", got, DefaultLimit)
	}
	if DefaultLimit != 1024 {
		t.Fatalf("DefaultLimit = %d, want 1024", DefaultLimit)
	}
}

func TestAddEvictsOldestFirst(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(3)
	fill(t, m, ids, 5)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if got := rowIDs(m); !equalIDs(got, []uint64{3, 4, 5}) {
		t.Fatalf("rows = %v, want [3 4 5]", got)
	}
	rows := m.Rows()
	for i, row := range rows {
		if row.Latest != (i == len(rows)-1) {
			t.Fatalf("row %d Latest = %v", i, row.Latest)
		}
	}
	if m.Latest().ID() != 5 {
		t.Fatalf("Latest() = %d, want 5", m.Latest().ID())
	}
}

func TestEvictionKeepsOpenWindowReadable(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(2)
	recs := fill(t, m, ids, 2)
	first := recs[0]
	wantTotal := first.Total()
	wantOutcomes := first.Outcomes(dice.D6)
	if !m.ToggleDetail(first.ID(), true) {
		t.Fatalf("toggle detail: record not found")
	}

	fill(t, m, ids, 4)

	if got := rowIDs(m); !equalIDs(got, []uint64{5, 6}) {
		t.Fatalf("rows = %v, want [5 6]", got)
	}
	windows := m.Windows()
	if len(windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(windows))
	}
	w := windows[0]
	if !w.Detached {
		t.Fatalf("evicted window must be detached")
	}
	if w.Record.ID() != first.ID() || w.Record.Total() != wantTotal {
		t.Fatalf("window shows %d/%d, want %d/%d", w.Record.ID(), w.Record.Total(), first.ID(), wantTotal)
	}
	if got := w.Record.Outcomes(dice.D6); len(got) != len(wantOutcomes) {
		t.Fatalf("outcomes = %v, want %v", got, wantOutcomes)
	}
	if m.ToggleDetail(first.ID(), false) {
		t.Fatalf("evicted record must not be toggled through the history")
	}
}

func TestEvictionWithoutWindowDropsRecord(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(1)
	fill(t, m, ids, 3)
	if len(m.Windows()) != 0 {
		t.Fatalf("no windows expected, got %d", len(m.Windows()))
	}
}

func TestClearToLastPreservesWindows(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(10)
	fill(t, m, ids, 4)
	m.ToggleDetail(1, true)
	m.ToggleDetail(3, true)
	m.ToggleDetail(4, true)

	m.ClearToLast()

	if got := rowIDs(m); !equalIDs(got, []uint64{4}) {
		t.Fatalf("rows = %v, want [4]", got)
	}
	if got := windowIDs(m); !equalIDs(got, []uint64{4, 1, 3}) {
		t.Fatalf("windows = %v, want [4 1 3]", got)
	}
	for _, w := range m.Windows() {
		if w.Detached != (w.Record.ID() != 4) {
			t.Fatalf("window %d Detached = %v", w.Record.ID(), w.Detached)
		}
	}
}

func TestClearToLastOnShortHistory(t *testing.T) {
	m := New(10)
	m.ClearToLast()
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	ids := &dice.Sequence{}
	fill(t, m, ids, 1)
	m.ToggleDetail(1, true)
	m.ClearToLast()
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if ws := m.Windows(); len(ws) != 1 || ws[0].Detached {
		t.Fatalf("window must stay attached: %+v", ws)
	}
}

func TestClearAllPreservesWindows(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(10)
	fill(t, m, ids, 3)
	m.ToggleDetail(2, true)

	m.ClearAll()

	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	if m.Latest() != nil {
		t.Fatalf("Latest() must be nil after ClearAll")
	}
	if got := windowIDs(m); !equalIDs(got, []uint64{2}) {
		t.Fatalf("windows = %v, want [2]", got)
	}
}

func TestCloseAllDetails(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(3)
	fill(t, m, ids, 3)
	m.ToggleDetail(1, true)
	m.ToggleDetail(3, true)
	fill(t, m, ids, 1)

	m.CloseAllDetails()

	if len(m.Windows()) != 0 {
		t.Fatalf("windows = %d, want 0", len(m.Windows()))
	}
	if m.Len() != 3 {
		t.Fatalf("history must be untouched, Len() = %d", m.Len())
	}
	for _, row := range m.Rows() {
		if row.DetailOpen {
			t.Fatalf("row %d still open", row.Record.ID())
		}
	}
}

func TestCloseWindowAndPrune(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(10)
	fill(t, m, ids, 3)
	m.ToggleDetail(1, true)
	m.ToggleDetail(2, true)
	m.ClearToLast()

	if !m.CloseWindow(1) {
		t.Fatalf("close detached window: not found")
	}
	if got := windowIDs(m); !equalIDs(got, []uint64{2}) {
		t.Fatalf("windows = %v, want [2]", got)
	}
	m.Prune()
	if len(m.detached) != 1 {
		t.Fatalf("detached = %d, want 1 after prune", len(m.detached))
	}
	if m.CloseWindow(1) {
		t.Fatalf("closing a dismissed window twice must report false")
	}

	m.ToggleDetail(3, true)
	if !m.CloseWindow(3) {
		t.Fatalf("close attached window: not found")
	}
	if m.Rows()[0].DetailOpen {
		t.Fatalf("attached window still open")
	}
}

func TestApplyRunsIntentsInOrder(t *testing.T) {
	ids := &dice.Sequence{}
	m := New(2)
	a := newRecord(t, ids, 1)
	b := newRecord(t, ids, 2)
	c := newRecord(t, ids, 3)

	m.Apply(
		Add{Record: a},
		ToggleDetail{ID: a.ID(), Show: true},
		Add{Record: b},
		Add{Record: c},
		nil,
	)
	if got := rowIDs(m); !equalIDs(got, []uint64{b.ID(), c.ID()}) {
		t.Fatalf("rows = %v", got)
	}
	if got := windowIDs(m); !equalIDs(got, []uint64{a.ID()}) {
		t.Fatalf("windows = %v", got)
	}

	m.Apply(CloseWindow{ID: a.ID()}, ClearAll{})
	if len(m.detached) != 0 {
		t.Fatalf("pruned windows remain: %d", len(m.detached))
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}

	m.Apply(Add{Record: a}, ToggleDetail{ID: a.ID(), Show: true}, ClearToLast{}, CloseAllDetails{})
	if len(m.Windows()) != 0 || m.Len() != 1 {
		t.Fatalf("unexpected state: windows=%d len=%d", len(m.Windows()), m.Len())
	}
}
