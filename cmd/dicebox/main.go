// cmd/dicebox/main.go
//
// This is the entry point for the dicebox roller.
//
// Flow:
// 1. Load (or create) the config file
// 2. Open the session log and the audio device
// 3. Launch the TUI, or print a single roll with `dicebox roll`

package main

import (
	"fmt"
	"os"

	"github.com/kingrea/dicebox/internal/cli"
	"github.com/kingrea/dicebox/internal/sound/device"
)

func main() {
	if err := cli.NewRootCommand(device.OpenSpeaker).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
