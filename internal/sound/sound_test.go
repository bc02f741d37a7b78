package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func writeWAV(t *testing.T, path string, rate beep.SampleRate, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoadLibrarySkipsReservedPrefix(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "roll-a.wav"), OutputRate, 400)
	writeWAV(t, filepath.Join(dir, "!draft.wav"), OutputRate, 400)
	writeWAV(t, filepath.Join(dir, "roll-b.wav"), 22050, 200)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	lib := LoadLibrary(dir, DefaultSkipPrefix)

	var names []string
	for _, clip := range lib.Clips() {
		names = append(names, clip.Name())
	}
	if got := strings.Join(names, ","); got != "roll-a.wav,roll-b.wav" {
		t.Fatalf("clips = %s, want roll-a.wav,roll-b.wav", got)
	}
	if diags := lib.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if n := lib.Clips()[0].Streamer().Len(); n != 400 {
		t.Fatalf("clip length = %d, want 400", n)
	}
}

func TestLoadLibraryReportsUndecodableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := LoadLibrary(dir, DefaultSkipPrefix)

	want := []string{"Fail to decode: broken.wav", "Fail to decode: notes.txt", "No sound is found!"}
	if got := lib.Diagnostics(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
}

func TestLoadLibraryMissingDirectory(t *testing.T) {
	lib := LoadLibrary(filepath.Join(t.TempDir(), "missing"), DefaultSkipPrefix)
	if len(lib.Clips()) != 0 {
		t.Fatalf("expected no clips")
	}
	if got := lib.Diagnostics(); len(got) != 1 || got[0] != "No sound is found!" {
		t.Fatalf("diagnostics = %v", got)
	}
}

type fakeOutput struct {
	played  int
	closed  int
	playErr error
}

func (o *fakeOutput) Play(s beep.Streamer) error {
	if o.playErr != nil {
		return o.playErr
	}
	o.played++
	return nil
}

func (o *fakeOutput) Close() error {
	o.closed++
	return nil
}

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

type recordingJournal struct {
	lines []string
}

func (j *recordingJournal) Warn(format string, args ...any) {
	j.lines = append(j.lines, fmt.Sprintf(format, args...))
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "clack.wav"), OutputRate, 100)
	return LoadLibrary(dir, DefaultSkipPrefix)
}

func TestPlayerPlaysClip(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(testLibrary(t), func() (Output, error) { return out, nil })
	if !p.Ready() {
		t.Fatalf("player should be ready")
	}
	if p.WarningVisible() {
		t.Fatalf("no warnings expected: %v", p.Diagnostics())
	}
	p.Play(firstSource{})
	if out.played != 1 {
		t.Fatalf("played = %d, want 1", out.played)
	}
}

func TestPlayerWithoutDeviceIsSilent(t *testing.T) {
	journal := &recordingJournal{}
	p := NewPlayer(testLibrary(t), func() (Output, error) { return nil, errors.New("no device") }, WithJournal(journal))
	p.Play(firstSource{})
	diags := p.Diagnostics()
	if len(diags) != 1 || diags[0] != "Fail to initialize output device for: no device" {
		t.Fatalf("diagnostics = %v", diags)
	}
	if !p.WarningVisible() {
		t.Fatalf("warning window should be raised")
	}
	if len(journal.lines) != 1 || !strings.Contains(journal.lines[0], "no device") {
		t.Fatalf("journal = %v", journal.lines)
	}
}

func TestPlayerWithoutClipsIsSilent(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(LoadLibrary(t.TempDir(), DefaultSkipPrefix), func() (Output, error) { return out, nil })
	p.Play(firstSource{})
	if out.played != 0 {
		t.Fatalf("played = %d, want 0", out.played)
	}
	if p.Ready() {
		t.Fatalf("player without clips must not be ready")
	}
}

func TestPlayerMutedReportsNothing(t *testing.T) {
	p := NewPlayer(nil, nil)
	p.Play(firstSource{})
	p.ResetDevice()
	if len(p.Diagnostics()) != 0 || p.WarningVisible() {
		t.Fatalf("muted player must stay quiet: %v", p.Diagnostics())
	}
}

func TestPlayerRecordsPlayFailure(t *testing.T) {
	out := &fakeOutput{playErr: errors.New("device lost")}
	p := NewPlayer(testLibrary(t), func() (Output, error) { return out, nil })
	p.Play(firstSource{})
	if diags := p.Diagnostics(); len(diags) != 1 || !strings.Contains(diags[0], "device lost") {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestResetDevice(t *testing.T) {
	first := &fakeOutput{}
	second := &fakeOutput{}
	calls := 0
	p := NewPlayer(testLibrary(t), func() (Output, error) {
		calls++
		switch calls {
		case 1:
			return first, nil
		case 2:
			return nil, errors.New("unplugged")
		default:
			return second, nil
		}
	})

	p.ResetDevice()
	if first.closed != 1 {
		t.Fatalf("old device must be closed, closed = %d", first.closed)
	}
	if diags := p.Diagnostics(); len(diags) != 1 || !strings.Contains(diags[0], "unplugged") {
		t.Fatalf("diagnostics = %v", diags)
	}
	p.Play(firstSource{})

	p.HideWarnings()
	p.ResetDevice()
	p.Play(firstSource{})
	if second.played != 1 {
		t.Fatalf("played on new device = %d, want 1", second.played)
	}
	if p.WarningVisible() {
		t.Fatalf("successful reset must not raise warnings")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p := NewPlayer(nil, nil, WithVolume(250))
	if p.Volume() != MaxVolume {
		t.Fatalf("volume = %d, want %d", p.Volume(), MaxVolume)
	}
	p.SetVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("volume = %d, want 0", p.Volume())
	}
}
