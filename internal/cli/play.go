package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/clock"
	"github.com/matzehuels/raytone/pkg/engine"
	"github.com/matzehuels/raytone/pkg/observability"
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	steps int  // stop after this many steps; 0 plays until interrupted
	bpm   int  // tempo override; 0 keeps the configured tempo
	tui   bool // show the live monitor
}

// playCommand creates the play command for running a project headless.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play <file.rt>",
		Short: "Run a project's control graph at its tempo",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.steps < 0 {
				return fmt.Errorf("--steps must not be negative")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			eng, _, err := c.newEngine(cfg, args[0], observability.Hooks{})
			if err != nil {
				return err
			}
			if opts.bpm != 0 {
				eng.SetBPM(opts.bpm)
			}

			if opts.tui {
				_, err := tea.NewProgram(NewMonitorModel(eng, args[0], opts.steps), tea.WithContext(cmd.Context())).Run()
				return err
			}

			prog := newProgress(c.Logger)
			steps, err := c.play(cmd.Context(), eng, opts.steps)
			if err != nil {
				return err
			}
			prog.done("played", "steps", steps, "bpm", eng.BPM())
			if eng.Registry().Len() > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), unitTable(eng.Registry()))
			}
			return cmd.Context().Err()
		},
	}

	cmd.Flags().IntVar(&opts.steps, "steps", 0, "stop after this many steps (0: until interrupted)")
	cmd.Flags().IntVar(&opts.bpm, "bpm", 0, fmt.Sprintf("tempo in steps per minute (%d-%d)", clock.MinBPM, clock.MaxBPM))
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live monitor")

	return cmd
}

// play ticks eng once per clock period until limit steps have run or ctx
// is done. It returns the number of steps run.
func (c *CLI) play(ctx context.Context, eng *engine.Engine, limit int) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	steps := 0
	err := clock.New(eng.BPM()).Run(ctx, func() {
		if err := eng.Tick(); err != nil {
			c.Logger.Debug("step", "n", steps, "err", err)
		}
		steps++
		if limit > 0 && steps >= limit {
			cancel()
		}
	})
	return steps, err
}
