// Package logbook keeps the dicebox session journal: one line per roll,
// clear or audio event, appended to logs/dicebox.log next to the config
// file. The TUI shows the newest lines in its log panel.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/dicebox/internal/dice"
)

// Level tags an entry. Levels are padded to five columns in the file.
type Level string

const (
	LevelInfo Level = "INFO"
	LevelWarn Level = "WARN"
)

// Logbook is safe for concurrent use. A nil *Logbook discards entries and
// tails nothing.
type Logbook struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// New prepares the directory holding path. The file itself is created by the
// first entry.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: create %s: %w", filepath.Dir(path), err)
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path is the journal file.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logbook) Info(format string, args ...any) { l.write(LevelInfo, format, args...) }
func (l *Logbook) Warn(format string, args ...any) { l.write(LevelWarn, format, args...) }

// Roll records rec as "Roll #1 · 2D6 + 1 = 9 [D6: 3 5]". Kinds are joined
// with "; " in canonical order.
func (l *Logbook) Roll(rec *dice.Record) {
	if rec == nil {
		return
	}
	groups := make([]string, 0, dice.NumKinds)
	for _, kind := range dice.Kinds() {
		if outcomes := rec.Outcomes(kind); len(outcomes) > 0 {
			groups = append(groups, kind.String()+": "+dice.JoinInts(outcomes))
		}
	}
	l.Info("Roll #%d · %s = %d [%s]", rec.ID(), rec.Description(), rec.Total(), strings.Join(groups, "; "))
}

// write drops the entry when the file cannot be opened; the journal never
// interrupts a roll.
func (l *Logbook) write(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	stamp := l.now().UTC().Format(time.RFC3339)
	fmt.Fprintf(f, "%s %-5s %s\n", stamp, level, msg)
}

// Tail returns the last n entries, oldest first, and how many entries the
// journal holds in total.
func (l *Logbook) Tail(n int) ([]string, int) {
	if l == nil || n <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	ring := make([]string, n)
	total := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ring[total%n] = sc.Text()
		total++
	}
	if total == 0 {
		return nil, 0
	}
	kept := min(total, n)
	out := make([]string, kept)
	for i := range out {
		out[i] = ring[(total-kept+i)%n]
	}
	return out, total
}
