package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/san-kum/autopilot/internal/ui"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "fly a control law and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runExperiment,
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("no-save", false, "do not store the run")
	return cmd
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	exp, err := registry.Build(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ui.Info("flying %s with %s (%s, dt=%g, %gs)", cfg.Plant, cfg.Law, cfg.Integrator, cfg.Dt, cfg.Duration)
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		ui.Warning("run interrupted: %v", err)
	}

	rows := [][]string{{"steps", strconv.Itoa(result.StepsTaken)}}
	names := maps.Keys(result.Metrics)
	slices.Sort(names)
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%.6g", result.Metrics[name])})
	}
	for i, v := range result.Final() {
		rows = append(rows, []string{fmt.Sprintf("x%d", i), fmt.Sprintf("%.6g", v)})
	}
	if err := ui.Table([]string{"Metric", "Value"}, rows, !noColor()); err != nil {
		return err
	}

	for _, e := range result.Errors {
		ui.Error("%v", e)
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save(exp.Info(), result)
	if err != nil {
		return err
	}
	ui.Success("saved run %s", runID)
	return nil
}
