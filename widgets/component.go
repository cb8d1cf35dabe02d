package widgets

import (
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
)

// Component is a base widget with bound services and subscriptions.
// Subscriptions registered through Observe are released on Unbind, and
// widgets that subscribe in Mount should clear Subs in Unmount.
type Component struct {
	Base
	Services runtime.Services
	Subs     state.Subscriptions
}

// Bind attaches app services and routes subscriptions through the app
// scheduler so updates land on the UI loop.
func (c *Component) Bind(services runtime.Services) {
	c.Services = services
	c.Subs.SetScheduler(services.Scheduler())
}

// Unbind releases app services and subscriptions.
func (c *Component) Unbind() {
	c.Subs.Clear()
	c.Subs.SetScheduler(nil)
	c.Services = runtime.Services{}
}

// Invalidate marks the component dirty and requests a render pass.
func (c *Component) Invalidate() {
	c.needsRender = true
	c.Services.Invalidate()
}

// Observe registers a subscription using the default scheduler.
func (c *Component) Observe(sub state.Subscribable, fn func()) {
	c.Subs.Observe(sub, fn)
}
