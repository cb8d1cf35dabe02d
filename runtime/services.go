package runtime

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/furry-counter/state"
)

// Services is the handle bound widgets use to reach their app.
type Services struct {
	app *App
}

// Services returns a service handle for the app.
func (a *App) Services() Services {
	return Services{app: a}
}

func (s Services) isZero() bool {
	return s.app == nil
}

// Scheduler returns the app state scheduler.
func (s Services) Scheduler() state.Scheduler {
	if s.app == nil {
		return nil
	}
	return s.app.StateScheduler()
}

// Logger returns the app logger, or nil when unbound.
func (s Services) Logger() logrus.FieldLogger {
	if s.app == nil {
		return nil
	}
	return s.app.logger
}

// Invalidate requests a render pass.
func (s Services) Invalidate() {
	if s.app == nil {
		return
	}
	s.app.Invalidate()
}

// Every runs fn on interval using the app task context. fn runs off the
// loop goroutine; a non-nil result is posted to the loop.
func (s Services) Every(interval time.Duration, fn func(time.Time) Message) {
	if s.app == nil {
		return
	}
	s.app.Every(interval, fn)
}
