package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/dicebox/internal/dice"
	"github.com/kingrea/dicebox/internal/records"
)

// newSource seeds the generator used by one roll command.
var newSource = func() dice.Source { return dice.NewSource() }

func newRollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll [expression]",
		Short: "Roll once and print the breakdown",
		Long: "Roll an expression such as 2D6+3 and print the breakdown. Without an " +
			"expression the first quick roll from the config file is used.",
		Args: cobra.ArbitraryArgs,
		RunE: runRollCmd,
	}
	cmd.Flags().IntP("times", "n", 1, "number of rolls")
	return cmd
}

func runRollCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	times, err := cmd.Flags().GetInt("times")
	if err != nil {
		return err
	}
	if times < 1 {
		return errors.New("--times must be >= 1")
	}

	state, err := rollState(s, strings.Join(args, ""))
	if err != nil {
		return err
	}

	hist := records.New(s.cfg.HistoryLimit())
	src := newSource()
	var ids dice.Sequence
	intents := make([]records.Intent, 0, times)
	for i := 0; i < times; i++ {
		rec, err := state.Roll(src, &ids, time.Now())
		if err != nil {
			return err
		}
		s.book.Roll(rec)
		intents = append(intents, records.Add{Record: rec})
	}
	hist.Apply(intents...)

	out := cmd.OutOrStdout()
	for i, row := range hist.Rows() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, row.Record.Breakdown())
	}
	return nil
}

// rollState resolves expr, or the first quick roll when expr is empty, and
// bounds it by the configured limits.
func rollState(s *session, expr string) (dice.State, error) {
	var state dice.State
	if strings.TrimSpace(expr) == "" {
		presets := s.cfg.Presets()
		if len(presets) == 0 {
			return dice.State{}, errors.New("no expression given and no quick rolls configured")
		}
		state, expr = presets[0].State, presets[0].Name
	} else {
		parsed, err := dice.ParseState(expr)
		if err != nil {
			return dice.State{}, err
		}
		state = parsed
	}
	limits := s.cfg.Limits()
	if err := limits.Check(state); err != nil {
		return dice.State{}, fmt.Errorf("%s: %w", expr, err)
	}
	state.Limits = limits
	return state, nil
}
