package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/dicebox/internal/config"
	"github.com/kingrea/dicebox/internal/logbook"
	"github.com/kingrea/dicebox/internal/sound"
	"github.com/kingrea/dicebox/internal/tui"
)

// runProgram drives the TUI until the user quits.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// NewRootCommand builds the dicebox command tree. open acquires the audio
// device for the interactive roller; nil keeps it silent.
func NewRootCommand(open sound.OpenFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dicebox",
		Short:         "Terminal dice roller with sound",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, open)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	rootCmd.PersistentFlags().Int("history", 0, "rows kept in the roll history")
	rootCmd.Flags().String("assets", "", "directory holding roll sounds")
	rootCmd.Flags().Bool("mute", false, "start without acquiring the audio device")

	rootCmd.AddCommand(newRollCmd())

	return rootCmd
}

// session bundles what every subcommand loads before doing its work.
type session struct {
	cfg  *config.Config
	book *logbook.Logbook
}

func openSession(cmd *cobra.Command) (*session, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	history, err := cmd.Flags().GetInt("history")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if history != 0 {
		if history < 0 {
			return nil, fmt.Errorf("--history must be >= 1")
		}
		cfg.Settings.HistoryLimit = history
	}
	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, book: book}, nil
}

func runTUI(cmd *cobra.Command, open sound.OpenFunc) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	player, err := s.newPlayer(cmd, open)
	if err != nil {
		return err
	}
	defer player.Close()

	app := tui.NewApp(s.cfg, player, tui.WithLogbook(s.book))
	if err := runProgram(app); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func (s *session) newPlayer(cmd *cobra.Command, open sound.OpenFunc) (*sound.Player, error) {
	soundCfg := s.cfg.Settings.Sound
	dir := soundCfg.AssetsDir
	override, err := cmd.Flags().GetString("assets")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(override) != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return nil, fmt.Errorf("resolve --assets: %w", err)
		}
		dir = abs
	}
	mute, err := cmd.Flags().GetBool("mute")
	if err != nil {
		return nil, err
	}
	opts := []sound.Option{
		sound.WithVolume(s.cfg.Volume()),
		sound.WithJournal(s.book),
	}
	if mute || soundCfg.Mute {
		s.book.Info("Audio · muted")
		return sound.NewPlayer(nil, nil, opts...), nil
	}
	lib := sound.LoadLibrary(dir, soundCfg.SkipPrefix)
	s.book.Info("Audio · %d clip(s) from %s", len(lib.Clips()), lib.Dir())
	return sound.NewPlayer(lib, open, opts...), nil
}
