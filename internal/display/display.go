// Package display routes activated views to the instrument's two surfaces
// and guards the wear-sensitive one with a refresh rate limiter.
package display

import "github.com/sweeney/trailkit/internal/format"

// SurfaceClass is the capability tag of a physical display.
type SurfaceClass string

const (
	// Fast tolerates continuous full redraws.
	Fast SurfaceClass = "fast"
	// SlowProtected has a slow physical refresh with a bounded safe rate.
	SlowProtected SurfaceClass = "slow-protected"
)

// Kind is the fixed set of view variants the firmware knows how to build.
type Kind string

const (
	KindLevel         Kind = "level"
	KindDopeTable     Kind = "dope-table"
	KindEnvironmental Kind = "environmental"
	KindBattery       Kind = "battery"
	KindDiagnostics   Kind = "diagnostics"
)

// View is an immutable screen definition.
type View struct {
	ID      string
	Kind    Kind
	Title   string
	Surface SurfaceClass
	Widgets []format.Widget
	// Pages is optional round-robin content. Each accepted refresh of a
	// slow-protected view shows the next page after the widget lines.
	Pages [][]string
}

// MenuViewID is the view bound to the fast surface while browsing the menu.
const MenuViewID = "menu"

// Frame is one staged image of a slow-protected view, as text lines.
type Frame struct {
	ViewID string
	Page   int
	Lines  []string
}

// FastSurface is a display that can be redrawn every iteration.
type FastSurface interface {
	// Show switches the surface to the layout of viewID.
	Show(viewID string) error
	// SetWidgetText replaces the text of one widget of the shown view.
	SetWidgetText(widgetID, text string) error
	// Present pushes pending changes to the panel.
	Present() error
}

// SlowSurface is a wear-sensitive display. Only the Limiter may call it.
type SlowSurface interface {
	// Draw stages a frame without touching the panel.
	Draw(f Frame) error
	// Commit physically refreshes the panel with the staged frame.
	// It may block for the panel's full refresh duration.
	Commit() error
}
