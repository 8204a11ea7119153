package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/trailkit/internal/telemetry"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Mode          string        `json:"mode"`
	Index         int           `json:"index"`
	Item          string        `json:"item,omitempty"`
	Bound         string        `json:"bound,omitempty"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	LastRefresh   string        `json:"last_refresh,omitempty"`
	EPaper        *EPaperJSON   `json:"epaper,omitempty"`
	InputReady    bool          `json:"input_ready"`
	Telemetry     TelemetryJSON `json:"telemetry"`
	Counts        CountsJSON    `json:"counts"`
	Config        ConfigJSON    `json:"config"`
}

// EPaperJSON is the refresh guard state of the slow-protected panel.
type EPaperJSON struct {
	View        string `json:"view"`
	NextPage    int    `json:"next_page"`
	NextAllowed string `json:"next_allowed"`
}

// TelemetryJSON holds one entry per group. A group never read is omitted.
type TelemetryJSON struct {
	Battery     *BatteryJSON     `json:"battery,omitempty"`
	Inertial    *InertialJSON    `json:"inertial,omitempty"`
	Environment *EnvironmentJSON `json:"environment,omitempty"`
}

// BatteryJSON is the JSON representation of a fuel-gauge reading.
type BatteryJSON struct {
	Voltage    float64 `json:"voltage"`
	Percent    float64 `json:"percent"`
	ChargeRate float64 `json:"charge_rate"`
	Stale      bool    `json:"stale"`
}

// InertialJSON is the JSON representation of an IMU reading.
type InertialJSON struct {
	Accel      [3]float64  `json:"accel"`
	Gyro       [3]float64  `json:"gyro"`
	Mag        [3]float64  `json:"mag"`
	Quaternion *[4]float64 `json:"quaternion,omitempty"`
	Stale      bool        `json:"stale"`
}

// EnvironmentJSON is the JSON representation of an environmental reading.
type EnvironmentJSON struct {
	TempC       float64 `json:"temp_c"`
	HumidityPct float64 `json:"humidity_pct"`
	PressureHPa float64 `json:"pressure_hpa"`
	Stale       bool    `json:"stale"`
}

// CountsJSON is the JSON representation of the diagnostics counters.
type CountsJSON struct {
	Iterations     int            `json:"iterations"`
	Presses        int            `json:"presses"`
	Transitions    int            `json:"transitions"`
	Activations    int            `json:"activations"`
	Accepted       int            `json:"refresh_accepted"`
	Throttled      int            `json:"refresh_throttled"`
	Failed         int            `json:"refresh_failed"`
	DrawErrors     int            `json:"draw_errors"`
	SensorFailures map[string]int `json:"sensor_failures"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Profile      string `json:"profile"`
	PollMs       int64  `json:"poll_ms"`
	DebounceMs   int64  `json:"debounce_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	MinRefreshMs int64  `json:"min_refresh_ms"`
	EPaper       bool   `json:"epaper"`
}

func vec(v telemetry.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func buildTelemetry(snap telemetry.Snapshot) TelemetryJSON {
	var out TelemetryJSON
	if r := snap.Battery; r.Valid {
		out.Battery = &BatteryJSON{
			Voltage:    r.Value.Voltage,
			Percent:    r.Value.Percent,
			ChargeRate: r.Value.ChargeRate,
			Stale:      r.Stale,
		}
	}
	if r := snap.Inertial; r.Valid {
		in := &InertialJSON{
			Accel: vec(r.Value.Accel),
			Gyro:  vec(r.Value.Gyro),
			Mag:   vec(r.Value.Mag),
			Stale: r.Stale,
		}
		if r.Value.HasQuat {
			q := r.Value.Quat
			in.Quaternion = &[4]float64{q.I, q.J, q.K, q.Real}
		}
		out.Inertial = in
	}
	if r := snap.Environment; r.Valid {
		out.Environment = &EnvironmentJSON{
			TempC:       r.Value.TempC,
			HumidityPct: r.Value.HumidityPct,
			PressureHPa: r.Value.PressureHPa,
			Stale:       r.Stale,
		}
	}
	return out
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Menu.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	failures := make(map[string]int, len(snap.Counts.SensorFailures))
	for g, n := range snap.Counts.SensorFailures {
		failures[string(g)] = n
	}

	inner := StatusInner{
		Mode:          mode,
		Index:         snap.Menu.Index,
		Item:          snap.Item,
		Bound:         snap.Bound,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		InputReady:    snap.InputReady,
		Telemetry:     buildTelemetry(snap.Telemetry),
		Counts: CountsJSON{
			Iterations:     snap.Counts.Iterations,
			Presses:        snap.Counts.Presses,
			Transitions:    snap.Counts.Transitions,
			Activations:    snap.Counts.Activations,
			Accepted:       snap.Counts.Accepted,
			Throttled:      snap.Counts.Throttled,
			Failed:         snap.Counts.Failed,
			DrawErrors:     snap.Counts.DrawErrors,
			SensorFailures: failures,
		},
		Config: ConfigJSON{
			Profile:      snap.Config.Profile,
			PollMs:       snap.Config.PollMs,
			DebounceMs:   snap.Config.DebounceMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			MinRefreshMs: snap.Config.MinRefreshMs,
			EPaper:       snap.Config.EPaper,
		},
	}
	if !snap.LastRefresh.IsZero() {
		inner.LastRefresh = snap.LastRefresh.UTC().Format(time.RFC3339)
	}
	if snap.Panel != "" {
		inner.EPaper = &EPaperJSON{
			View:        snap.Panel,
			NextPage:    snap.NextPage,
			NextAllowed: snap.NextAllowed.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the -print-state dump.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
