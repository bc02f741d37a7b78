package dice

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyRoll is returned by Roll when no die has a non-zero count.
var ErrEmptyRoll = errors.New("dice: at least one die must be selected")

// ErrOutOfLimits is returned by Limits.Check for a selection the limits do
// not admit.
var ErrOutOfLimits = errors.New("dice: selection outside limits")

// Limits bounds the values the UI may enter.
type Limits struct {
	MaxCount    int
	MinModifier int
	MaxModifier int
}

// DefaultLimits mirrors the drag ranges of the desktop roller: 0..100 for
// both counts and the constant.
func DefaultLimits() Limits {
	return Limits{MaxCount: 100, MinModifier: 0, MaxModifier: 100}
}

// Check returns ErrOutOfLimits when a count of s is negative or above
// MaxCount, or when the constant leaves [MinModifier, MaxModifier].
func (l Limits) Check(s State) error {
	for _, kind := range Kinds() {
		if n := s.Counts[kind]; n < 0 || n > l.MaxCount {
			return fmt.Errorf("%w: %d%s, at most %d per kind", ErrOutOfLimits, n, kind, l.MaxCount)
		}
	}
	if s.Modifier < l.MinModifier || s.Modifier > l.MaxModifier {
		return fmt.Errorf("%w: constant %d not in [%d, %d]", ErrOutOfLimits, s.Modifier, l.MinModifier, l.MaxModifier)
	}
	return nil
}

// State is the current selection: a count per kind and a flat modifier.
type State struct {
	Counts   [NumKinds]int
	Modifier int
	Limits   Limits
}

// NewState returns an all-zero selection bounded by limits.
func NewState(limits Limits) State {
	return State{Limits: limits}
}

// Count returns the configured count for kind.
func (s *State) Count(kind Kind) int {
	if !kind.valid() {
		return 0
	}
	return s.Counts[kind]
}

// SetCount stores n for kind, clamped to [0, MaxCount].
func (s *State) SetCount(kind Kind, n int) {
	if !kind.valid() {
		return
	}
	s.Counts[kind] = clamp(n, 0, s.limits().MaxCount)
}

// SetModifier stores n clamped to the modifier range.
func (s *State) SetModifier(n int) {
	l := s.limits()
	s.Modifier = clamp(n, l.MinModifier, l.MaxModifier)
}

// AddCount shifts the count of kind by delta.
func (s *State) AddCount(kind Kind, delta int) {
	s.SetCount(kind, s.Count(kind)+delta)
}

// AddModifier shifts the modifier by delta.
func (s *State) AddModifier(delta int) {
	s.SetModifier(s.Modifier + delta)
}

// Reset zeroes every count and the modifier.
func (s *State) Reset() {
	s.Counts = [NumKinds]int{}
	s.Modifier = 0
}

// Valid reports whether at least one die is selected. A modifier-only roll
// is not allowed.
func (s State) Valid() bool {
	for _, n := range s.Counts {
		if n != 0 {
			return true
		}
	}
	return false
}

// Describe renders the selection as "2D6 + 1D20 + 3". It is empty only when
// the whole state is zero.
func (s State) Describe() string {
	var parts []string
	for _, kind := range Kinds() {
		if n := s.Counts[kind]; n != 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, kind))
		}
	}
	out := strings.Join(parts, " + ")
	switch {
	case s.Modifier == 0:
		return out
	case len(parts) == 0:
		return fmt.Sprintf("%d", s.Modifier)
	case s.Modifier < 0:
		return fmt.Sprintf("%s - %d", out, -s.Modifier)
	default:
		return fmt.Sprintf("%s + %d", out, s.Modifier)
	}
}

// Roll draws count outcomes for every selected kind and returns the record.
// The caller gates with Valid; an empty state yields ErrEmptyRoll.
func (s State) Roll(src Source, ids *Sequence, now time.Time) (*Record, error) {
	if !s.Valid() {
		return nil, ErrEmptyRoll
	}
	var id uint64
	if ids != nil {
		id = ids.Next()
	}
	rec := &Record{
		id:          id,
		counts:      s.Counts,
		modifier:    s.Modifier,
		description: s.Describe(),
		time:        now,
	}
	total := 0
	for _, kind := range Kinds() {
		n := s.Counts[kind]
		if n == 0 {
			continue
		}
		outcomes := make([]int, n)
		for i := range outcomes {
			v := kind.roll(src)
			outcomes[i] = v
			total += v
		}
		rec.outcomes[kind] = outcomes
	}
	rec.total = total + s.Modifier
	return rec, nil
}

func (s *State) limits() Limits {
	if s.Limits == (Limits{}) {
		s.Limits = DefaultLimits()
	}
	return s.Limits
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
