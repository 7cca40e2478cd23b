package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/autopilot/internal/experiment"
	"github.com/san-kum/autopilot/internal/storage"
	"github.com/san-kum/autopilot/internal/ui"
)

const version = "0.3.0"

var registry = experiment.NewRegistry()

func main() {
	rootCmd := &cobra.Command{
		Use:   "autopilot",
		Short: "flight control law lab",
		Long: `autopilot flies control laws against simulated plants: a PID on a
1-D axis and a trim law on a kinematic airframe. Runs are stored on disk
and can be plotted, exported or watched live.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			setupUi()
			return nil
		},
	}

	rootCmd.PersistentFlags().String("data", "", "data directory (default is $HOME/.autopilot)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "more verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable all terminal output coloration")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newBenchCmd(),
		newTuneCmd(),
		newLiveCmd(),
		newServeCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				ui.Printfln(version)
			},
		},
	)

	cobra.OnInitialize(initViper)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initViper lets every flag be set from the environment, e.g.
// AUTOPILOT_KP=9 or AUTOPILOT_NO_COLOR=true.
func initViper() {
	viper.SetEnvPrefix("autopilot")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setupUi() {
	ui.SetDebugEnabled(viper.GetBool("verbose"))
	if viper.GetBool("no-color") {
		ui.SetColorEnabled(false)
		pterm.DisableStyling()
	}
}

func dataDir() (string, error) {
	if dir := viper.GetString("data"); dir != "" {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("couldn't detect home directory: %w", err)
	}
	return filepath.Join(home, ".autopilot"), nil
}

func openStore() (*storage.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
