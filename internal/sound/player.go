package sound

import (
	"fmt"
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/kingrea/dicebox/internal/dice"
)

const (
	// DefaultVolume plays clips at their recorded level.
	DefaultVolume = 50
	MaxVolume     = 100
)

// Output is an audio device that mixes the streams it is handed.
type Output interface {
	Play(s beep.Streamer) error
	Close() error
}

// OpenFunc acquires the output device.
type OpenFunc func() (Output, error)

// Journal receives diagnostics as they are recorded.
type Journal interface {
	Warn(format string, args ...any)
}

// Option customizes a Player.
type Option func(*Player)

// WithVolume sets the starting volume (0-100).
func WithVolume(v int) Option {
	return func(p *Player) { p.SetVolume(v) }
}

// WithJournal mirrors every diagnostic into j.
func WithJournal(j Journal) Option {
	return func(p *Player) {
		if j != nil {
			p.journal = j
		}
	}
}

// Player plays one random clip per roll and keeps the diagnostics the UI
// shows in its warning window.
type Player struct {
	open    OpenFunc
	output  Output
	library *Library
	journal Journal

	volume         int
	diagnostics    []string
	warningVisible bool
	controlVisible bool
}

// NewPlayer acquires the device through open and takes ownership of lib.
// A nil open leaves the player muted without reporting anything.
func NewPlayer(lib *Library, open OpenFunc, opts ...Option) *Player {
	p := &Player{
		open:           open,
		library:        lib,
		volume:         DefaultVolume,
		controlVisible: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if open != nil {
		if out, err := open(); err != nil {
			p.report(fmt.Sprintf("Fail to initialize output device for: %v", err))
		} else {
			p.output = out
		}
	}
	for _, msg := range lib.Diagnostics() {
		p.report(msg)
	}
	return p
}

// Play picks a clip with src and plays it at the current volume. Without a
// device or clips it does nothing.
func (p *Player) Play(src dice.Source) {
	if p == nil || p.output == nil {
		return
	}
	clips := p.library.Clips()
	if len(clips) == 0 {
		return
	}
	clip := clips[src.IntN(len(clips))]
	if err := p.output.Play(p.applyVolume(clip.Streamer())); err != nil {
		p.report(fmt.Sprintf("Fail to initialize output device for: %v", err))
	}
}

// ResetDevice releases and reacquires the output device. A failure replaces
// the diagnostics with the device error.
func (p *Player) ResetDevice() {
	if p == nil || p.open == nil {
		return
	}
	if p.output != nil {
		_ = p.output.Close()
		p.output = nil
	}
	out, err := p.open()
	if err != nil {
		p.diagnostics = nil
		p.report(fmt.Sprintf("Fail to initialize output device for: %v", err))
		return
	}
	p.output = out
}

// Close releases the device.
func (p *Player) Close() error {
	if p == nil || p.output == nil {
		return nil
	}
	err := p.output.Close()
	p.output = nil
	return err
}

// Ready reports whether a device is held and clips are loaded.
func (p *Player) Ready() bool {
	return p != nil && p.output != nil && len(p.library.Clips()) > 0
}

// Volume returns the current volume.
func (p *Player) Volume() int { return p.volume }

// SetVolume stores v clamped to [0, MaxVolume].
func (p *Player) SetVolume(v int) {
	p.volume = min(max(v, 0), MaxVolume)
}

// Diagnostics returns the recorded messages, oldest first.
func (p *Player) Diagnostics() []string {
	return append([]string(nil), p.diagnostics...)
}

// WarningVisible reports whether the warning window is shown.
func (p *Player) WarningVisible() bool { return p.warningVisible }

// ShowWarnings raises the warning window.
func (p *Player) ShowWarnings() { p.warningVisible = true }

// HideWarnings dismisses the warning window.
func (p *Player) HideWarnings() { p.warningVisible = false }

// ControlVisible reports whether the audio config window is shown.
func (p *Player) ControlVisible() bool { return p.controlVisible }

// SetControlVisible shows or hides the audio config window.
func (p *Player) SetControlVisible(v bool) { p.controlVisible = v }

func (p *Player) report(msg string) {
	p.diagnostics = append(p.diagnostics, msg)
	p.warningVisible = true
	if p.journal != nil {
		p.journal.Warn("Sound · %s", msg)
	}
}

// applyVolume scales s on a log2 curve: DefaultVolume is unity gain and
// MaxVolume doubles it.
func (p *Player) applyVolume(s beep.Streamer) beep.Streamer {
	if p.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(float64(p.volume) / DefaultVolume),
	}
}
