package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/ui"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [plant]",
		Short: "list plants, their laws and presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plants := registry.ListPlants()
			if len(args) == 1 {
				plants = []string{args[0]}
			}

			rows := make([][]string, 0)
			for _, plant := range plants {
				laws := registry.ListLaws(plant)
				if laws == nil {
					return fmt.Errorf("unknown plant %q, try one of %s", plant, strings.Join(registry.ListPlants(), ", "))
				}
				for _, name := range config.ListPresets(plant) {
					p := config.GetPreset(plant, name)
					rows = append(rows, []string{
						plant,
						name,
						p.Law,
						fmt.Sprintf("%g", p.Duration),
						fmt.Sprintf("%v", p.GetInitState()),
					})
				}
				ui.Debug("%s laws: %s", plant, strings.Join(laws, ", "))
			}
			return ui.Table([]string{"Plant", "Preset", "Law", "Duration", "Initial state"}, rows, !noColor())
		},
	}
}
