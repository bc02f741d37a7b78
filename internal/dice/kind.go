// Package dice models the die kinds, the editable roll selection and the
// immutable record produced by each roll.
package dice

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Kind identifies one supported die. The iota order is the canonical order
// used for descriptions and breakdowns.
type Kind int

const (
	D4 Kind = iota
	D6
	D8
	D12
	D20
	D100
)

// NumKinds is the number of supported die kinds.
const NumKinds = 6

var faces = [NumKinds]int{4, 6, 8, 12, 20, 100}

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	return []Kind{D4, D6, D8, D12, D20, D100}
}

// Faces returns the number of faces on the die.
func (k Kind) Faces() int {
	if !k.valid() {
		return 0
	}
	return faces[k]
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("D?(%d)", int(k))
	}
	return fmt.Sprintf("D%d", faces[k])
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < NumKinds
}

// KindForFaces maps a face count back to its kind.
func KindForFaces(n int) (Kind, bool) {
	for i, f := range faces {
		if f == n {
			return Kind(i), true
		}
	}
	return 0, false
}

// Source is the randomness provider for rolls. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n). n must be > 0.
	IntN(n int) int
}

// NewSource returns the per-session generator.
func NewSource() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|1))
}

// roll draws one outcome in [1, faces].
func (k Kind) roll(src Source) int {
	return src.IntN(k.Faces()) + 1
}
