// Package records owns the bounded roll history and the detail windows the
// user opened for individual rolls.
//
// A record stays reachable while it is either in the history or shown by an
// open detail window. Evicting or clearing a row whose window is open
// demotes the window to a detached entry that keeps the *dice.Record alive
// on its own; closing that window lets it go.
package records

import (
	"github.com/kingrea/dicebox/internal/dice"
)

// DefaultLimit is the history capacity used when none is configured.
const DefaultLimit = 1024

type line struct {
	record     *dice.Record
	detailOpen bool
}

type detached struct {
	record *dice.Record
	open   bool
}

// Row is one history entry as the table renders it.
type Row struct {
	Record     *dice.Record
	DetailOpen bool
	Latest     bool
}

// Window is one open detail window.
type Window struct {
	Record   *dice.Record
	// Detached is true once the record has left the history.
	Detached bool
}

// Manager holds the history and the detail windows. It is driven from the
// UI goroutine only and does no locking.
type Manager struct {
	limit    int
	history  []*line
	detached []*detached
}

// New returns an empty manager keeping at most limit rows.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Limit is the history capacity.
func (m *Manager) Limit() int { return m.limit }

// Len is the number of rows in the history.
func (m *Manager) Len() int { return len(m.history) }

// Add appends rec, evicting the oldest row first when the history is full.
func (m *Manager) Add(rec *dice.Record) {
	if rec == nil {
		return
	}
	for len(m.history) >= m.limit {
		m.demote(m.history[0])
		m.history[0] = nil
		m.history = m.history[1:]
	}
	m.history = append(m.history, &line{record: rec})
}

// Latest returns the newest record, or nil when the history is empty.
func (m *Manager) Latest() *dice.Record {
	if len(m.history) == 0 {
		return nil
	}
	return m.history[len(m.history)-1].record
}

// ToggleDetail opens or closes the detail window of a record still in the
// history. It reports whether the record was found.
func (m *Manager) ToggleDetail(id uint64, show bool) bool {
	for _, l := range m.history {
		if l.record.ID() == id {
			l.detailOpen = show
			return true
		}
	}
	return false
}

// ClearToLast keeps only the newest row.
func (m *Manager) ClearToLast() {
	if len(m.history) <= 1 {
		return
	}
	last := m.history[len(m.history)-1]
	for _, l := range m.history[:len(m.history)-1] {
		m.demote(l)
	}
	m.history = []*line{last}
}

// ClearAll empties the history. Open windows survive as detached windows.
func (m *Manager) ClearAll() {
	for _, l := range m.history {
		m.demote(l)
	}
	m.history = nil
}

// CloseAllDetails closes every detail window, attached or detached, and
// leaves the history untouched.
func (m *Manager) CloseAllDetails() {
	for _, l := range m.history {
		l.detailOpen = false
	}
	m.detached = nil
}

// CloseWindow dismisses the window showing id. Detached windows are only
// marked closed here and dropped by the next Prune.
func (m *Manager) CloseWindow(id uint64) bool {
	if m.ToggleDetail(id, false) {
		return true
	}
	for _, w := range m.detached {
		if w.open && w.record.ID() == id {
			w.open = false
			return true
		}
	}
	return false
}

// Prune drops dismissed detached windows. The UI calls it once per frame
// after applying the frame's intents.
func (m *Manager) Prune() {
	kept := m.detached[:0]
	for _, w := range m.detached {
		if w.open {
			kept = append(kept, w)
		}
	}
	for i := len(kept); i < len(m.detached); i++ {
		m.detached[i] = nil
	}
	m.detached = kept
	if len(m.detached) == 0 {
		m.detached = nil
	}
}

// Rows returns the history oldest first; the newest row has Latest set.
func (m *Manager) Rows() []Row {
	rows := make([]Row, len(m.history))
	for i, l := range m.history {
		rows[i] = Row{
			Record:     l.record,
			DetailOpen: l.detailOpen,
			Latest:     i == len(m.history)-1,
		}
	}
	return rows
}

// Windows returns every open detail window: attached ones in history order,
// then detached ones in the order they left the history.
func (m *Manager) Windows() []Window {
	var out []Window
	for _, l := range m.history {
		if l.detailOpen {
			out = append(out, Window{Record: l.record})
		}
	}
	for _, w := range m.detached {
		if w.open {
			out = append(out, Window{Record: w.record, Detached: true})
		}
	}
	return out
}

func (m *Manager) demote(l *line) {
	if l == nil || !l.detailOpen {
		return
	}
	m.detached = append(m.detached, &detached{record: l.record, open: true})
}
