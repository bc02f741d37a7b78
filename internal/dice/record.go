package dice

import (
	"fmt"
	"strings"
	"time"
)

// Record is the immutable result of one roll. History rows and detail
// windows share the same *Record; nothing mutates it after Roll returns.
type Record struct {
	id          uint64
	outcomes    [NumKinds][]int
	counts      [NumKinds]int
	modifier    int
	description string
	time        time.Time
	total       int
}

// ID is unique within a session and increases with every roll.
func (r *Record) ID() uint64 { return r.id }

// Outcomes returns a copy of the values rolled for kind, in roll order.
func (r *Record) Outcomes(kind Kind) []int {
	if !kind.valid() || len(r.outcomes[kind]) == 0 {
		return nil
	}
	out := make([]int, len(r.outcomes[kind]))
	copy(out, r.outcomes[kind])
	return out
}

// Count returns how many dice of kind were rolled.
func (r *Record) Count(kind Kind) int {
	if !kind.valid() {
		return 0
	}
	return r.counts[kind]
}

// Modifier is the flat value added to the dice.
func (r *Record) Modifier() int { return r.modifier }

// Description is the selection text at roll time, e.g. "2D6 + 1".
func (r *Record) Description() string { return r.description }

// Time is the wall-clock time of the roll.
func (r *Record) Time() time.Time { return r.time }

// Total is the sum of every outcome plus the modifier.
func (r *Record) Total() int { return r.total }

// Breakdown renders the per-kind outcomes as plain text, one line per kind.
func (r *Record) Breakdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", r.time.Format("15:04:05"), r.description)
	for _, kind := range Kinds() {
		if len(r.outcomes[kind]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", kind, JoinInts(r.outcomes[kind]))
	}
	if r.modifier != 0 {
		fmt.Fprintf(&b, "Const: %d\n", r.modifier)
	}
	fmt.Fprintf(&b, "Result: %d", r.total)
	return b.String()
}

// JoinInts formats values separated by single spaces.
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, " ")
}

// Sequence hands out record ids. The zero value starts at 1.
type Sequence struct {
	last uint64
}

// Next returns the next id.
func (s *Sequence) Next() uint64 {
	s.last++
	return s.last
}
