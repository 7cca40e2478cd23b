package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/experiment"
	"github.com/san-kum/autopilot/internal/state"
	"github.com/san-kum/autopilot/internal/viz"
)

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "fly a plant with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(cmd)
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}

	// the view restarts sessions on the same experiment, so the law is
	// rebuilt each time to start from a clean integral
	build := func() (*experiment.Experiment, error) {
		return registry.Build(cfg)
	}
	exp, err := build()
	if err != nil {
		return err
	}
	current := exp

	opts := viz.Options{
		Title:   fmt.Sprintf("%s / %s", cfg.Plant, cfg.Law),
		Vehicle: exp.Kind() == experiment.KindVehicle,
		Dt:      cfg.Dt,
		Start: func() (viz.Session, error) {
			next, err := build()
			if err != nil {
				return nil, err
			}
			current = next
			return next.Start()
		},
	}
	if cfg.Law == "manual" {
		opts.Nudge = func(dx, dy float64) {
			switch law := current.Law().(type) {
			case *control.Manual[state.Axis, state.Force]:
				u := law.Evaluate(state.Axis{})
				law.Set(state.Force{Force: u.Force + dx*10})
			case *control.Manual[state.Vehicle, state.Surfaces]:
				u := law.Evaluate(state.Vehicle{})
				u.Aileron = control.Clamp(u.Aileron+dx, cfg.Limits.Aileron.Min, cfg.Limits.Aileron.Max)
				u.Elevator = control.Clamp(u.Elevator+dy, cfg.Limits.Elevator.Min, cfg.Limits.Elevator.Max)
				law.Set(u)
			}
		}
	}

	return viz.Run(opts)
}
