package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidExpr marks a preset expression that cannot be parsed.
var ErrInvalidExpr = errors.New("dice: invalid expression")

// Preset is a named, fixed selection rolled with one key press.
type Preset struct {
	Name  string
	State State
}

// DefaultPresets are the quick rolls offered when none are configured.
func DefaultPresets() []Preset {
	return MustPresets("1D4", "3D4", "1D6", "3D6", "1D100")
}

// MustPresets parses each expression and panics on error. Only for literals.
func MustPresets(exprs ...string) []Preset {
	presets, err := ParsePresets(exprs)
	if err != nil {
		panic(err)
	}
	return presets
}

// ParsePresets parses every expression into a preset named after its
// canonical description.
func ParsePresets(exprs []string) ([]Preset, error) {
	presets := make([]Preset, 0, len(exprs))
	for i, expr := range exprs {
		state, err := ParseState(expr)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		presets = append(presets, Preset{Name: state.Describe(), State: state})
	}
	return presets, nil
}

// ParseState parses "2D6 + 1d20 + 3" into a State. Terms are separated by
// '+' or '-'; a die term is "[count]D<faces>" with a supported face count,
// anything else must be an integer constant. At least one die is required.
func ParseState(expr string) (State, error) {
	state := NewState(DefaultLimits())
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return State{}, fmt.Errorf("%w: empty", ErrInvalidExpr)
	}
	for _, term := range splitTerms(trimmed) {
		body := strings.TrimSpace(term.body)
		if body == "" {
			return State{}, fmt.Errorf("%w: %q has an empty term", ErrInvalidExpr, expr)
		}
		idx := strings.IndexAny(body, "dD")
		if idx < 0 {
			n, err := strconv.Atoi(body)
			if err != nil {
				return State{}, fmt.Errorf("%w: %q: bad constant %q", ErrInvalidExpr, expr, body)
			}
			state.Modifier += term.sign * n
			continue
		}
		if term.sign < 0 {
			return State{}, fmt.Errorf("%w: %q: dice cannot be subtracted", ErrInvalidExpr, expr)
		}
		count := 1
		if idx > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(body[:idx]))
			if err != nil || n <= 0 {
				return State{}, fmt.Errorf("%w: %q: bad count in %q", ErrInvalidExpr, expr, body)
			}
			count = n
		}
		sides, err := strconv.Atoi(strings.TrimSpace(body[idx+1:]))
		if err != nil {
			return State{}, fmt.Errorf("%w: %q: bad faces in %q", ErrInvalidExpr, expr, body)
		}
		kind, ok := KindForFaces(sides)
		if !ok {
			return State{}, fmt.Errorf("%w: %q: unsupported die D%d", ErrInvalidExpr, expr, sides)
		}
		state.Counts[kind] += count
	}
	if !state.Valid() {
		return State{}, fmt.Errorf("%w: %q selects no dice", ErrInvalidExpr, expr)
	}
	return state, nil
}

type term struct {
	sign int
	body string
}

func splitTerms(expr string) []term {
	var terms []term
	sign := 1
	start := 0
	for i, r := range expr {
		if r != '+' && r != '-' {
			continue
		}
		terms = append(terms, term{sign: sign, body: expr[start:i]})
		sign = 1
		if r == '-' {
			sign = -1
		}
		start = i + 1
	}
	return append(terms, term{sign: sign, body: expr[start:]})
}
