package agent

import (
	"time"

	"github.com/odvcencio/furry-counter/runtime"
)

// Snapshot captures the screen text and, once the app has stopped, the
// widget tree.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Frames    int64        `json:"frames"`
	Text      string       `json:"text,omitempty"`
	Widgets   []WidgetInfo `json:"widgets,omitempty"`
	Focused   *WidgetInfo  `json:"focused,omitempty"`
}

// WidgetInfo describes a widget in the UI tree.
type WidgetInfo struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	Label     string       `json:"label,omitempty"`
	Bounds    runtime.Rect `json:"bounds"`
	Children  []WidgetInfo `json:"children,omitempty"`
	Focusable bool         `json:"focusable,omitempty"`
	Focused   bool         `json:"focused,omitempty"`
}

// Labeled is implemented by widgets that expose a short text label.
type Labeled interface {
	Label() string
}
