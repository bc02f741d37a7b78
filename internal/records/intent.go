package records

import "github.com/kingrea/dicebox/internal/dice"

// Intent is a change requested while handling one frame of input. The UI
// collects intents and applies them together once input handling is done,
// so rendering never observes a half-applied frame.
type Intent interface {
	apply(m *Manager)
}

// Add appends a freshly rolled record.
type Add struct{ Record *dice.Record }

// ToggleDetail opens or closes the detail window of a history row.
type ToggleDetail struct {
	ID   uint64
	Show bool
}

// ClearToLast keeps only the newest row (single-click "clear").
type ClearToLast struct{}

// ClearAll empties the history (double-click "clear").
type ClearAll struct{}

// CloseAllDetails closes every detail window.
type CloseAllDetails struct{}

// CloseWindow dismisses one detail window.
type CloseWindow struct{ ID uint64 }

func (i Add) apply(m *Manager)           { m.Add(i.Record) }
func (i ToggleDetail) apply(m *Manager)  { m.ToggleDetail(i.ID, i.Show) }
func (ClearToLast) apply(m *Manager)     { m.ClearToLast() }
func (ClearAll) apply(m *Manager)        { m.ClearAll() }
func (CloseAllDetails) apply(m *Manager) { m.CloseAllDetails() }
func (i CloseWindow) apply(m *Manager)   { m.CloseWindow(i.ID) }

// Apply runs intents in order and then prunes dismissed windows.
func (m *Manager) Apply(intents ...Intent) {
	for _, intent := range intents {
		if intent != nil {
			intent.apply(m)
		}
	}
	m.Prune()
}
