package telemetry

import "time"

// Reading carries one group's value plus freshness flags.
type Reading[T any] struct {
	Value T
	// Valid is false until the first successful read.
	Valid bool
	// Stale is true when the latest read failed and Value is the last good one.
	Stale bool
	// At is the time of the last successful read.
	At time.Time
}

// Snapshot is a point-in-time view of all telemetry groups.
// It is a value type; the cache never mutates a returned Snapshot.
type Snapshot struct {
	Battery     Reading[Battery]
	Inertial    Reading[Inertial]
	Environment Reading[Environment]
}

// Has reports whether g has ever been read successfully.
func (s Snapshot) Has(g Group) bool {
	switch g {
	case GroupBattery:
		return s.Battery.Valid
	case GroupInertial:
		return s.Inertial.Valid
	case GroupEnvironment:
		return s.Environment.Valid
	}
	return false
}

// IsStale reports whether g is showing a retained value.
func (s Snapshot) IsStale(g Group) bool {
	switch g {
	case GroupBattery:
		return s.Battery.Stale
	case GroupInertial:
		return s.Inertial.Stale
	case GroupEnvironment:
		return s.Environment.Stale
	}
	return false
}

// Failures maps each group that failed this refresh to its error.
type Failures map[Group]error

// Cache holds the last good reading of each group.
// Not safe for concurrent use; the main loop is its only caller.
type Cache struct {
	snap Snapshot
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Refresh reads every group from src. A failed group keeps its previous
// value and is flagged stale; other groups update normally.
func (c *Cache) Refresh(src Source, now time.Time) (Snapshot, Failures) {
	var failed Failures
	fail := func(g Group, err error) {
		if failed == nil {
			failed = make(Failures)
		}
		failed[g] = err
	}

	if b, err := src.ReadBattery(); err != nil {
		c.snap.Battery.Stale = c.snap.Battery.Valid
		fail(GroupBattery, err)
	} else {
		c.snap.Battery = Reading[Battery]{Value: b, Valid: true, At: now}
	}

	if in, err := src.ReadInertial(); err != nil {
		c.snap.Inertial.Stale = c.snap.Inertial.Valid
		fail(GroupInertial, err)
	} else {
		c.snap.Inertial = Reading[Inertial]{Value: in, Valid: true, At: now}
	}

	if env, err := src.ReadEnvironment(); err != nil {
		c.snap.Environment.Stale = c.snap.Environment.Valid
		fail(GroupEnvironment, err)
	} else {
		c.snap.Environment = Reading[Environment]{Value: env, Valid: true, At: now}
	}

	return c.snap, failed
}

// Snapshot returns the current cached snapshot without reading.
func (c *Cache) Snapshot() Snapshot {
	return c.snap
}
