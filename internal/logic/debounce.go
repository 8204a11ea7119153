package logic

import "time"

// Debouncer turns raw button samples into press edges.
// Each button must hold a new level for the debounce duration before it
// becomes stable; a press edge is emitted once per released->pressed change.
type Debouncer struct {
	debounceDuration time.Duration
	channels         map[Button]*ChannelState
}

// NewDebouncer creates a Debouncer for the given buttons.
func NewDebouncer(debounceDuration time.Duration, buttons []Button) *Debouncer {
	d := &Debouncer{
		debounceDuration: debounceDuration,
		channels:         make(map[Button]*ChannelState, len(buttons)),
	}
	for _, b := range buttons {
		d.channels[b] = &ChannelState{}
	}
	return d
}

// Process takes the samples read this iteration and returns the press edges
// that completed debounce. Samples for unknown buttons are ignored; buttons
// missing from samples (read failures) keep their state untouched.
// Events are returned in canonical button order.
func (d *Debouncer) Process(samples []Sample, now time.Time) []ButtonEvent {
	seen := make(map[Button]bool, len(samples))
	for _, s := range samples {
		ch, ok := d.channels[s.Button]
		if !ok {
			continue
		}
		if d.processChannel(ch, boolToLevel(s.Pressed), now) {
			seen[s.Button] = true
		}
	}

	var events []ButtonEvent
	for _, b := range Buttons {
		if !seen[b] {
			continue
		}
		events = append(events, ButtonEvent{Button: b, Edge: EdgePressed, Time: now})
	}
	return events
}

// processChannel handles debounce logic for a single button.
// Returns true if a release->press edge completed.
func (d *Debouncer) processChannel(ch *ChannelState, level Level, now time.Time) bool {
	// First time seeing this button
	if !ch.Baselined {
		if ch.Pending == "" || ch.Pending != level {
			ch.Pending = level
			ch.PendingSince = now
			return false
		}
		if now.Sub(ch.PendingSince) >= d.debounceDuration {
			ch.Stable = level
			ch.Baselined = true
			ch.Pending = ""
		}
		// A button held through startup never produces an edge.
		return false
	}

	if level == ch.Stable {
		ch.Pending = ""
		return false
	}

	if ch.Pending != level {
		ch.Pending = level
		ch.PendingSince = now
		return false
	}

	if now.Sub(ch.PendingSince) >= d.debounceDuration {
		old := ch.Stable
		ch.Stable = level
		ch.Pending = ""
		return old == LevelReleased && level == LevelPressed
	}
	return false
}

// Level returns the stable level of b, or "" before its baseline.
func (d *Debouncer) Level(b Button) Level {
	ch, ok := d.channels[b]
	if !ok {
		return ""
	}
	return ch.Stable
}

// IsBaselined reports whether every button has a stable baseline.
func (d *Debouncer) IsBaselined() bool {
	for _, ch := range d.channels {
		if !ch.Baselined {
			return false
		}
	}
	return true
}

func boolToLevel(pressed bool) Level {
	if pressed {
		return LevelPressed
	}
	return LevelReleased
}
