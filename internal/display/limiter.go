package display

import "time"

// DefaultMinRefreshInterval is the shortest gap between two physical
// refreshes of the slow-protected surface.
const DefaultMinRefreshInterval = 180 * time.Second

// Decision is the outcome of a refresh request.
type Decision string

const (
	// Accepted means the panel was drawn and committed.
	Accepted Decision = "ACCEPTED"
	// Throttled means the request came too soon; nothing was touched.
	Throttled Decision = "THROTTLED"
	// Failed means the surface reported an error; guard state is unchanged.
	Failed Decision = "FAILED"
)

// Content is what a slow-protected view wants on the panel.
// Pages cycle round-robin, one step per accepted refresh.
type Content struct {
	ViewID string
	Pages  [][]string
}

// Limiter gatekeeps every write to a SlowSurface.
// Not safe for concurrent use; the main loop is its only caller.
type Limiter struct {
	surface     SlowSurface
	minInterval time.Duration

	lastRefresh time.Time
	refreshed   bool
	cursor      int
	viewID      string
}

// NewLimiter guards surface with minInterval. A negative interval is
// treated as zero.
func NewLimiter(surface SlowSurface, minInterval time.Duration) *Limiter {
	if minInterval < 0 {
		minInterval = 0
	}
	return &Limiter{
		surface:     surface,
		minInterval: minInterval,
	}
}

// RequestRefresh draws and commits c if at least minInterval has elapsed
// since the last accepted refresh (or if the panel was never refreshed).
// A Throttled request makes no surface call and changes no state.
func (l *Limiter) RequestRefresh(c Content, now time.Time) (Decision, error) {
	if l.refreshed && now.Sub(l.lastRefresh) < l.minInterval {
		return Throttled, nil
	}

	pages := c.Pages
	if len(pages) == 0 {
		pages = [][]string{nil}
	}
	cursor := 0
	if c.ViewID == l.viewID {
		cursor = l.cursor % len(pages)
	}

	frame := Frame{ViewID: c.ViewID, Page: cursor, Lines: pages[cursor]}
	if err := l.surface.Draw(frame); err != nil {
		return Failed, err
	}
	if err := l.surface.Commit(); err != nil {
		return Failed, err
	}

	l.lastRefresh = now
	l.refreshed = true
	l.viewID = c.ViewID
	l.cursor = (cursor + 1) % len(pages)
	return Accepted, nil
}

// LastRefresh returns the time of the last accepted refresh.
// ok is false if the panel was never refreshed.
func (l *Limiter) LastRefresh() (t time.Time, ok bool) {
	return l.lastRefresh, l.refreshed
}

// Cursor returns the page the next accepted refresh of the current view
// will show.
func (l *Limiter) Cursor() int {
	return l.cursor
}

// ViewID returns the view currently on the panel, or "" before the first
// accepted refresh.
func (l *Limiter) ViewID() string {
	return l.viewID
}

// NextAllowed returns the earliest time a refresh will be accepted.
func (l *Limiter) NextAllowed() time.Time {
	if !l.refreshed {
		return time.Time{}
	}
	return l.lastRefresh.Add(l.minInterval)
}
