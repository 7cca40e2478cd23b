package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/autopilot/internal/optim"
	"github.com/san-kum/autopilot/internal/ui"
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [plant]",
		Short: "grid search pid gains against a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, _ := cmd.Flags().GetFloat64Slice("kp-grid")
			kd, _ := cmd.Flags().GetFloat64Slice("kd-grid")
			ki, _ := cmd.Flags().GetFloat64Slice("ki-grid")
			metric, _ := cmd.Flags().GetString("metric")
			top, _ := cmd.Flags().GetInt("top")
			workers, _ := cmd.Flags().GetInt("workers")

			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			if cfg.Law != "pid" && cfg.Law != "pid-guarded" {
				return fmt.Errorf("tune needs a pid law, got %q", cfg.Law)
			}

			search, err := optim.NewGridSearch(
				[]string{optim.ParamKp, optim.ParamKd, optim.ParamKi},
				[][]float64{kp, kd, ki},
			)
			if err != nil {
				return err
			}
			search.WithWorkers(workers)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			ui.Info("flying %d grid points on %s", len(search.Points()), cfg.Plant)
			candidates, err := search.Search(ctx, optim.PIDBuilder(registry, cfg), metric)
			if err != nil {
				return err
			}

			if top > len(candidates) {
				top = len(candidates)
			}
			rows := make([][]string, 0, top)
			for i, c := range candidates[:top] {
				score := fmt.Sprintf("%.6g", c.Score)
				if c.Failed {
					score = "failed"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					fmt.Sprintf("%g", c.Params[optim.ParamKp]),
					fmt.Sprintf("%g", c.Params[optim.ParamKd]),
					fmt.Sprintf("%g", c.Params[optim.ParamKi]),
					score,
				})
			}
			return ui.Table([]string{"rank", "kp", "kd", "ki", metric}, rows, !noColor())
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Float64Slice("kp-grid", []float64{2, 4, 7, 10}, "proportional gains to try")
	cmd.Flags().Float64Slice("kd-grid", []float64{1, 3, 5}, "derivative gains to try")
	cmd.Flags().Float64Slice("ki-grid", []float64{0, 0.5}, "integral gains to try")
	cmd.Flags().String("metric", "abs_error", "metric to minimize")
	cmd.Flags().Int("top", 5, "number of candidates to print")
	cmd.Flags().Int("workers", 0, "concurrent runs (0 uses every cpu)")
	return cmd
}
