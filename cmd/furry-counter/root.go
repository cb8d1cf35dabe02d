package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-counter/agent"
	backendtcell "github.com/odvcencio/furry-counter/backend/tcell"
	"github.com/odvcencio/furry-counter/backend/sim"
	"github.com/odvcencio/furry-counter/config"
	"github.com/odvcencio/furry-counter/terminal"
)

// snapshotTimeout bounds a headless run.
const snapshotTimeout = 10 * time.Second

type options struct {
	configPath string
	step       int
	bucket     int
	logFile    string
	clicks     int
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "furry-counter",
		Short: "Two counter views over one shared store",
		Long: `furry-counter renders two buttons bound to one counter store.
"With selector" reads the store rounded down to a bucket and only
repaints when the bucket changes. "Without selector" repaints on every click.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (.toml or .yaml)")
	root.PersistentFlags().IntVar(&opts.step, "step", 0, "amount added per click")
	root.PersistentFlags().IntVar(&opts.bucket, "bucket", 0, "selector bucket size")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write change log to this file")

	snapshot := &cobra.Command{
		Use:   "snapshot",
		Short: "Click the first button headlessly and print the screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, opts)
		},
	}
	snapshot.Flags().IntVar(&opts.clicks, "clicks", 0, "number of clicks before the snapshot")
	snapshot.Flags().BoolVar(&opts.json, "json", false, "print the screen and widget tree as JSON")
	root.AddCommand(snapshot)
	return root
}

// load layers flags over the file and environment settings.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("step") {
		cfg.Step = o.step
	}
	if flags.Changed("bucket") {
		cfg.Bucket = o.bucket
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	be, err := backendtcell.New()
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	app, stop := newCounterApp(cfg, be, logger)
	defer stop()

	if err := app.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, opts *options) error {
	if opts.clicks < 0 {
		return fmt.Errorf("clicks must not be negative: %d", opts.clicks)
	}
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	be := sim.New(cfg.Width, cfg.Height)
	app, stop := newCounterApp(cfg, be, logger)
	defer stop()

	driver := agent.New(agent.Config{App: app, Sim: be, Timeout: snapshotTimeout})
	if err := driver.Start(cmd.Context()); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for i := 1; i <= opts.clicks; i++ {
		driver.Press(terminal.KeyEnter)
		if err := driver.WaitForText(statusText(i*cfg.Step, cfg)); err != nil {
			_ = driver.Stop()
			return fmt.Errorf("click %d: %w", i, err)
		}
	}
	if err := driver.Stop(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(driver.Snapshot())
	}
	_, err = fmt.Fprint(out, driver.CaptureText())
	return err
}
