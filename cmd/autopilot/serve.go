package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/autopilot/internal/api"
	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/harness"
	"github.com/san-kum/autopilot/internal/statistics"
	"github.com/san-kum/autopilot/internal/ui"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [plant]",
		Short: "fly a plant in realtime and serve its status and metrics",
		Long: `serve flies the plant in realtime until interrupted (or for --time
seconds if given) and exposes GET /alive, /status and /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}
	addRunFlags(cmd)
	cmd.Flags().Int("port", config.DefaultStatisticsPort, "http port")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	cfg.Realtime = true
	if !cmd.Flags().Changed("time") {
		cfg.Duration = 0
	}
	port := cfg.Statistics.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}
	port = servePort(port)

	exp, err := registry.Build(cfg)
	if err != nil {
		return err
	}

	collector := statistics.NewLoopCollector(cfg.Plant, exp.Law())
	exp.AddObserver(collector)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			err := exp.Stream(ctx, func(harness.Sample) bool { return true })
			ui.Info("control loop stopped")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === REST api
		rest := api.CreateRestService(cfg.Plant, cfg.Law, collector, reg)
		addr := fmt.Sprintf(":%d", port)

		g.Add(func() error {
			ui.Info("serving on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("error stopping api server: %v", err)
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		done := make(chan struct{})

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("received signal, exiting...")
			case <-done:
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			close(done)
		})
	}

	err = g.Run()
	ticks, t, _, _ := collector.Snapshot()
	ui.Info("flew %d ticks (%.2fs simulated)", ticks, t)
	return err
}

// servePort falls back to the default statistics port when port is not a
// usable TCP port.
func servePort(port int) int {
	if port <= 0 || port > 65535 {
		return config.DefaultStatisticsPort
	}
	return port
}
