package config

import (
	"github.com/qdm12/reprint"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/san-kum/autopilot/internal/state"
)

func preset(plant, law string, duration float64, init InitStateConfig) *Config {
	cfg := DefaultConfig()
	cfg.Plant = plant
	cfg.Law = law
	cfg.Duration = duration
	cfg.InitState = init
	return cfg
}

var Presets = map[string]map[string]*Config{
	"axis": {
		"step":     preset("axis", "pid", 10.0, InitStateConfig{Position: 2.0}),
		"kick":     preset("axis", "pid", 10.0, InitStateConfig{Velocity: 5.0}),
		"feedback": preset("axis", "feedback", 10.0, InitStateConfig{Position: 2.0}),
		"drift":    preset("axis", "hold", 5.0, InitStateConfig{Position: 1.0, Velocity: 0.5}),
	},
	"axis3": {
		"step":  preset("axis3", "pid", 5.0, InitStateConfig{Position: 2.0}),
		"nudge": preset("axis3", "pid", 5.0, InitStateConfig{Position: 0.01}),
	},
	"airframe": {
		"trim": preset("airframe", "trim", 20.0, InitStateConfig{
			Vehicle: state.Vehicle{Z: -100},
		}),
		"upset": preset("airframe", "trim-saturated", 20.0, InitStateConfig{
			Vehicle: state.Vehicle{Z: -100, Phi: 0.5, Theta: 0.3, U: 10},
		}),
	},
}

// GetPreset returns a deep copy of the named preset, or nil.
func GetPreset(plant, name string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[name]
	if !ok {
		return nil
	}
	return reprint.This(cfg).(*Config)
}

// ListPresets returns the preset names of a plant in sorted order.
func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := maps.Keys(plantPresets)
	slices.Sort(names)
	return names
}
