package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/autopilot/internal/storage"
	"github.com/san-kum/autopilot/internal/ui"
)

func noColor() bool {
	return viper.GetBool("no-color")
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				ui.Info("no runs stored yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.Plant,
					r.Law,
					r.Integrator,
					strconv.Itoa(r.StepsTaken),
					fmt.Sprintf("%.4f", r.Metrics["control_effort"]),
					r.Timestamp.Format("2006-01-02 15:04:05"),
				})
			}
			return ui.Table([]string{"ID", "Plant", "Law", "Integrator", "Steps", "Effort", "Time"}, rows, !noColor())
		},
	}
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one state entry of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			width, _ := cmd.Flags().GetInt("width")

			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			states, _, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			if len(states) == 0 {
				return fmt.Errorf("run %s has no states", args[0])
			}
			if index < 0 || index >= len(states[0]) {
				return fmt.Errorf("index %d out of range, run has %d state entries", index, len(states[0]))
			}

			data := make([]float64, len(states))
			for i, x := range states {
				data[i] = x[index]
			}

			caption := fmt.Sprintf("%s / %s: x%d", meta.Plant, meta.Law, index)
			graph := asciigraph.Plot(data,
				asciigraph.Height(15),
				asciigraph.Width(width),
				asciigraph.Caption(caption),
			)
			ui.Printfln("%s", graph)
			return nil
		},
	}
	cmd.Flags().Int("index", 0, "state entry to plot")
	cmd.Flags().Int("width", 80, "plot width")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the state/command table of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			st, err := openStore()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(st.StatesPath(args[0]))
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := atomic.WriteFile(out, bytes.NewReader(data)); err != nil {
				return err
			}
			ui.Success("wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the full trajectory of a run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			st, err := openStore()
			if err != nil {
				return err
			}
			meta, result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				return storage.WriteJSON(os.Stdout, meta.RunInfo, result)
			}
			if err := storage.ExportJSON(out, meta.RunInfo, result); err != nil {
				return err
			}
			ui.Success("wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}
