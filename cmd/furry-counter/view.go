package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/config"
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
	"github.com/odvcencio/furry-counter/widgets"
)

const helpText = "`Tab` switch, `Enter` click, `q` quit"

// newCounterApp wires one store to both views. stop releases the status
// computation once the app has finished.
func newCounterApp(cfg *config.Config, be backend.Backend, logger logrus.FieldLogger) (*runtime.App, func()) {
	store := state.NewCounterStore()

	selected := widgets.NewCounterButton("# With selector", store, state.FloorTo(cfg.Bucket))
	selected.SetStep(cfg.Step)
	plain := widgets.NewCounterButton("# Without selector", store, state.Identity)
	plain.SetStep(cfg.Step)
	plain.LogChanges(logger)

	status := state.NewComputed(func() string {
		return statusText(store.Snapshot(nil), cfg)
	}, store.Notifier())
	status.SetEqualFunc(state.EqualComparable[string])
	statusLabel := widgets.NewSignalLabel(status, nil)
	statusLabel.SetStyle(backend.DefaultStyle().Dim(true))

	help := widgets.NewMarkdown(helpText)

	root := widgets.NewColumn(selected, widgets.NewRule(), plain, help, statusLabel)
	root.SetGap(1)

	logger.WithFields(logrus.Fields{"step": cfg.Step, "bucket": cfg.Bucket}).Info("starting")

	app := runtime.NewApp(runtime.AppConfig{
		Backend:    be,
		Root:       root,
		TickRate:   cfg.TickRate,
		KeyHandler: quitOnQ,
		Logger:     logger,
	})
	return app, status.Stop
}

func statusText(total int, cfg *config.Config) string {
	return fmt.Sprintf("total %d, step %d, bucket %d", total, cfg.Step, cfg.Bucket)
}

func quitOnQ(app *runtime.App, msg runtime.KeyMsg) bool {
	if msg.Rune == 'q' || msg.Rune == 'Q' {
		app.Quit()
		return true
	}
	return false
}
