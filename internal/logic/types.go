// Package logic contains the pure input and navigation logic of the instrument.
// This package has NO hardware dependencies (no GPIO, I2C, SPI, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Button identifies one key of the five-button pad.
type Button string

const (
	ButtonSelect Button = "SELECT"
	ButtonUp     Button = "UP"
	ButtonDown   Button = "DOWN"
	ButtonLeft   Button = "LEFT"
	ButtonRight  Button = "RIGHT"
)

// Buttons lists every pad button in canonical order.
var Buttons = []Button{ButtonSelect, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}

// Edge is a debounced level change of a button.
type Edge string

// EdgePressed is the only edge the menu consumes.
const EdgePressed Edge = "PRESSED"

// ButtonEvent is one debounced edge reported by the Debouncer.
type ButtonEvent struct {
	Button Button
	Edge   Edge
	Time   time.Time
}

// Level is the debounced state of a single button.
type Level string

const (
	LevelReleased Level = "RELEASED"
	LevelPressed  Level = "PRESSED"
)

// Sample is one raw reading of a button, already in logical form.
type Sample struct {
	Button  Button
	Pressed bool
}

// ChannelState tracks debounce state for a single button.
type ChannelState struct {
	// Current stable (debounced) level
	Stable Level
	// Pending level during debounce
	Pending Level
	// Time when pending level was first observed
	PendingSince time.Time
	// Whether we have established a baseline
	Baselined bool
}

// Mode is the top-level state of the menu.
type Mode string

const (
	ModeMenu   Mode = "MENU"
	ModeDetail Mode = "DETAIL"
)

// MenuState is the navigable state: a mode plus the selected item index.
type MenuState struct {
	Mode  Mode
	Index int
}

// Transition is the outcome of feeding edges into the Menu.
type Transition struct {
	// Changed reports whether the MenuState moved.
	Changed bool
	// Activated is set when a view must be routed to its surface.
	Activated bool
	// Item is the activated menu item (valid when Activated).
	Item string
	// From and To bracket the transition.
	From MenuState
	To   MenuState
	// Button is the edge that fired, empty when nothing fired.
	Button Button
}
