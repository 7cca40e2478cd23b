package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/autopilot/internal/ui"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [plant]",
		Short: "measure ticks per second for a plant and law",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, _ := cmd.Flags().GetInt("iterations")

			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			cfg.Realtime = false

			var ticks int
			start := time.Now()
			for i := 0; i < iterations; i++ {
				exp, err := registry.Build(cfg)
				if err != nil {
					return err
				}
				result, err := exp.Run(context.Background())
				if err != nil {
					return err
				}
				ticks += result.StepsTaken
			}
			elapsed := time.Since(start)

			rows := [][]string{
				{"plant", cfg.Plant},
				{"law", cfg.Law},
				{"integrator", cfg.Integrator},
				{"iterations", fmt.Sprintf("%d", iterations)},
				{"ticks", fmt.Sprintf("%d", ticks)},
				{"elapsed", elapsed.String()},
				{"ticks/s", fmt.Sprintf("%.0f", float64(ticks)/elapsed.Seconds())},
			}
			return ui.Table([]string{"", ""}, rows, !noColor())
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Int("iterations", 10, "number of runs")
	return cmd
}
