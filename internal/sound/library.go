// Package sound loads the roll sound effects and plays a random one per roll.
// Every failure here is reported as a diagnostic string; none of them stop
// the roller.
package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	// DefaultDir is where clips are looked up when no directory is configured.
	DefaultDir = "assets"
	// DefaultSkipPrefix marks files in the clip directory that are not loaded.
	DefaultSkipPrefix = "!"
)

// OutputRate is the sample rate of the output device. Clips recorded at a
// different rate are resampled while loading.
const OutputRate = beep.SampleRate(44100)

const resampleQuality = 4

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".wav":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".mp3":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".ogg":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".flac": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) },
}

var errUnsupported = errors.New("unsupported audio format")

// Clip is one decoded sound held in memory for the session.
type Clip struct {
	name   string
	buffer *beep.Buffer
}

// Name is the file name the clip was loaded from.
func (c Clip) Name() string { return c.name }

// Streamer returns a fresh stream over the whole clip.
func (c Clip) Streamer() beep.StreamSeeker {
	return c.buffer.Streamer(0, c.buffer.Len())
}

// Library is the set of clips read once at startup.
type Library struct {
	dir         string
	clips       []Clip
	diagnostics []string
}

// LoadLibrary decodes every regular file in dir whose name does not start
// with skipPrefix. A missing directory yields an empty library.
func LoadLibrary(dir, skipPrefix string) *Library {
	lib := &Library{dir: strings.TrimSpace(dir)}
	if lib.dir == "" {
		lib.dir = DefaultDir
	}
	entries, err := os.ReadDir(lib.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		lib.diagnostics = append(lib.diagnostics, fmt.Sprintf("Fail to read: %s", lib.dir))
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if skipPrefix != "" && strings.HasPrefix(name, skipPrefix) {
			continue
		}
		clip, err := loadClip(filepath.Join(lib.dir, name))
		switch {
		case err == nil:
			lib.clips = append(lib.clips, clip)
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
			lib.diagnostics = append(lib.diagnostics, fmt.Sprintf("Fail to read: %s", name))
		default:
			lib.diagnostics = append(lib.diagnostics, fmt.Sprintf("Fail to decode: %s", name))
		}
	}
	if len(lib.clips) == 0 {
		lib.diagnostics = append(lib.diagnostics, "No sound is found!")
	}
	return lib
}

// Dir is the directory the library was loaded from.
func (l *Library) Dir() string {
	if l == nil {
		return ""
	}
	return l.dir
}

// Clips returns the loaded clips in file name order.
func (l *Library) Clips() []Clip {
	if l == nil {
		return nil
	}
	return l.clips
}

// Diagnostics lists the problems met while loading.
func (l *Library) Diagnostics() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.diagnostics...)
}

func loadClip(path string) (Clip, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Clip{}, fmt.Errorf("sound: %s: %w", path, errUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("sound: open %s: %w", path, err)
	}
	stream, format, err := decode(f)
	if err != nil {
		f.Close()
		return Clip{}, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	defer stream.Close()

	buffer := beep.NewBuffer(beep.Format{SampleRate: OutputRate, NumChannels: 2, Precision: 2})
	var source beep.Streamer = stream
	if format.SampleRate != OutputRate {
		source = beep.Resample(resampleQuality, format.SampleRate, OutputRate, stream)
	}
	buffer.Append(source)
	if err := stream.Err(); err != nil {
		return Clip{}, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	return Clip{name: filepath.Base(path), buffer: buffer}, nil
}
