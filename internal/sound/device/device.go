// Package device binds the sound player to the system speaker.
package device

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/kingrea/dicebox/internal/sound"
)

// bufferDuration is the length of the speaker mixer buffer.
const bufferDuration = time.Second / 10

type speakerOutput struct{}

// OpenSpeaker initialises the default system speaker at sound.OutputRate.
// It has the sound.OpenFunc signature.
func OpenSpeaker() (sound.Output, error) {
	if err := speaker.Init(sound.OutputRate, sound.OutputRate.N(bufferDuration)); err != nil {
		return nil, err
	}
	return speakerOutput{}, nil
}

func (speakerOutput) Play(s beep.Streamer) error {
	speaker.Play(s)
	return nil
}

func (speakerOutput) Close() error {
	speaker.Close()
	return nil
}
