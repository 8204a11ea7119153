// Package status keeps the instrument's diagnostic counters and the last
// known state for the heartbeat log and the -print-state dump.
package status

import (
	"time"

	"github.com/sweeney/trailkit/internal/display"
	"github.com/sweeney/trailkit/internal/logic"
	"github.com/sweeney/trailkit/internal/telemetry"
)

// Config contains daemon configuration for display.
type Config struct {
	Profile      string
	PollMs       int64
	DebounceMs   int64
	HeartbeatMs  int64
	MinRefreshMs int64
	EPaper       bool
}

// Counts are monotonically increasing diagnostics counters.
type Counts struct {
	Iterations  int
	Presses     int
	Transitions int
	Activations int
	Accepted    int
	Throttled   int
	Failed      int
	DrawErrors  int
	// SensorFailures counts failed reads per telemetry group.
	SensorFailures map[telemetry.Group]int
}

func (c Counts) clone() Counts {
	out := c
	out.SensorFailures = make(map[telemetry.Group]int, len(c.SensorFailures))
	for g, n := range c.SensorFailures {
		out.SensorFailures[g] = n
	}
	return out
}

// Snapshot is a point-in-time view of instrument state.
type Snapshot struct {
	Menu      logic.MenuState
	Item      string
	Bound     string
	Telemetry telemetry.Snapshot
	Counts    Counts
	// LastRefresh is the time of the last accepted e-paper refresh.
	LastRefresh time.Time
	// Panel is the view on the e-paper; NextPage and NextAllowed describe
	// what the refresh guard will accept next.
	Panel       string
	NextPage    int
	NextAllowed time.Time
	// InputReady is set once every button has a stable baseline.
	InputReady bool
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the instrument started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Heartbeat is emitted by CheckHeartbeat when the interval has elapsed.
type Heartbeat struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}

// Tracker accumulates state from the main loop. It is owned by the loop
// goroutine and is not safe for concurrent use.
type Tracker struct {
	snap          Snapshot
	lastHeartbeat time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Counts:    Counts{SensorFailures: make(map[telemetry.Group]int)},
		},
		lastHeartbeat: startTime,
	}
}

// Iteration counts one main loop pass.
func (t *Tracker) Iteration() {
	t.snap.Counts.Iterations++
}

// Presses adds n debounced button presses.
func (t *Tracker) Presses(n int) {
	t.snap.Counts.Presses += n
}

// Transition records a menu transition and the resulting state.
func (t *Tracker) Transition(tr logic.Transition) {
	if tr.Changed || tr.Activated {
		t.snap.Counts.Transitions++
	}
	if tr.Activated {
		t.snap.Counts.Activations++
	}
	t.snap.Menu = tr.To
	if tr.Item != "" {
		t.snap.Item = tr.Item
	}
}

// Refresh records a limiter decision and the guard state it left behind.
func (t *Tracker) Refresh(res display.Result, at time.Time) {
	t.snap.Panel = res.Panel
	t.snap.NextPage = res.NextPage
	t.snap.NextAllowed = res.NextAllowed
	switch res.Decision {
	case display.Accepted:
		t.snap.Counts.Accepted++
		t.snap.LastRefresh = at
	case display.Throttled:
		t.snap.Counts.Throttled++
	case display.Failed:
		t.snap.Counts.Failed++
	}
}

// InputReady marks the buttons as baselined.
func (t *Tracker) InputReady() {
	t.snap.InputReady = true
}

// DrawError counts a failed fast-surface write.
func (t *Tracker) DrawError() {
	t.snap.Counts.DrawErrors++
}

// Telemetry stores the latest snapshot and counts failed groups.
func (t *Tracker) Telemetry(snap telemetry.Snapshot, failed telemetry.Failures) {
	t.snap.Telemetry = snap
	for g := range failed {
		t.snap.Counts.SensorFailures[g]++
	}
}

// Bind records the view shown on the fast surface.
func (t *Tracker) Bind(viewID string) {
	t.snap.Bound = viewID
}

// Snapshot returns a copy of the tracked state stamped with now.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	s := t.snap
	s.Counts = t.snap.Counts.clone()
	s.Now = now
	return s
}

// CheckHeartbeat returns heartbeat data if interval has elapsed since the
// last heartbeat. A zero or negative interval disables heartbeats.
func (t *Tracker) CheckHeartbeat(now time.Time, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		return nil
	}
	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}
	t.lastHeartbeat = now
	return &Heartbeat{
		Timestamp: now,
		Uptime:    now.Sub(t.snap.StartTime),
		Counts:    t.snap.Counts.clone(),
	}
}
