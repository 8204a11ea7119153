// Package format turns telemetry snapshots into display-ready widget text.
// Everything here is pure: no hardware, no clock, no logging.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/sweeney/trailkit/internal/telemetry"
)

// Field names one value a widget can bind.
type Field string

const (
	BatteryVoltage    Field = "battery.voltage"
	BatteryPercent    Field = "battery.percent"
	BatteryChargeRate Field = "battery.charge_rate"

	AccelX Field = "accel.x"
	AccelY Field = "accel.y"
	AccelZ Field = "accel.z"
	GyroX  Field = "gyro.x"
	GyroY  Field = "gyro.y"
	GyroZ  Field = "gyro.z"
	MagX   Field = "mag.x"
	MagY   Field = "mag.y"
	MagZ   Field = "mag.z"
	QuatI  Field = "quat.i"
	QuatJ  Field = "quat.j"
	QuatK  Field = "quat.k"
	QuatR  Field = "quat.real"

	// CompassBearing is derived from the magnetometer X/Y axes.
	CompassBearing Field = "compass.bearing"

	TempC       Field = "env.temp_c"
	HumidityPct Field = "env.humidity_pct"
	PressureHPa Field = "env.pressure_hpa"
)

// Placeholder is rendered for a field whose sensor has never answered.
const Placeholder = "----"

// Widget is one text element of a view.
// Each "{}" in Template is replaced, in order, by the next bound field
// rendered with Precision decimals.
type Widget struct {
	ID        string
	Template  string
	Fields    []Field
	Precision int
}

// Group returns the telemetry group f is read from.
func (f Field) Group() telemetry.Group {
	switch f {
	case BatteryVoltage, BatteryPercent, BatteryChargeRate:
		return telemetry.GroupBattery
	case AccelX, AccelY, AccelZ, GyroX, GyroY, GyroZ, MagX, MagY, MagZ,
		QuatI, QuatJ, QuatK, QuatR, CompassBearing:
		return telemetry.GroupInertial
	case TempC, HumidityPct, PressureHPa:
		return telemetry.GroupEnvironment
	}
	return ""
}

// Format renders w against snap. Stale groups render their retained value
// unchanged; groups never read render Placeholder.
func Format(w Widget, snap telemetry.Snapshot) string {
	var b strings.Builder
	rest := w.Template
	for _, f := range w.Fields {
		i := strings.Index(rest, "{}")
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(formatField(f, w.Precision, snap))
		rest = rest[i+2:]
	}
	b.WriteString(rest)
	return b.String()
}

func formatField(f Field, prec int, snap telemetry.Snapshot) string {
	v, ok := value(f, snap)
	if !ok {
		return Placeholder
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if f == CompassBearing {
		// 359.7 at zero decimals reads as 360; show it as north.
		if r, err := strconv.ParseFloat(s, 64); err == nil && r >= 360 {
			s = strconv.FormatFloat(0, 'f', prec, 64)
		}
	}
	return s
}

// value extracts f from snap. ok is false when the group was never read or
// the field is unknown.
func value(f Field, snap telemetry.Snapshot) (float64, bool) {
	if !snap.Has(f.Group()) {
		return 0, false
	}
	bat := snap.Battery.Value
	in := snap.Inertial.Value
	env := snap.Environment.Value

	switch f {
	case BatteryVoltage:
		return bat.Voltage, true
	case BatteryPercent:
		return bat.Percent, true
	case BatteryChargeRate:
		return bat.ChargeRate, true
	case AccelX:
		return in.Accel.X, true
	case AccelY:
		return in.Accel.Y, true
	case AccelZ:
		return in.Accel.Z, true
	case GyroX:
		return in.Gyro.X, true
	case GyroY:
		return in.Gyro.Y, true
	case GyroZ:
		return in.Gyro.Z, true
	case MagX:
		return in.Mag.X, true
	case MagY:
		return in.Mag.Y, true
	case MagZ:
		return in.Mag.Z, true
	case QuatI, QuatJ, QuatK, QuatR:
		if !in.HasQuat {
			return 0, false
		}
		return quatPart(f, in.Quat), true
	case CompassBearing:
		return Bearing(in.Mag.X, in.Mag.Y), true
	case TempC:
		return env.TempC, true
	case HumidityPct:
		return env.HumidityPct, true
	case PressureHPa:
		return env.PressureHPa, true
	}
	return 0, false
}

func quatPart(f Field, q telemetry.Quat) float64 {
	switch f {
	case QuatI:
		return q.I
	case QuatJ:
		return q.J
	case QuatK:
		return q.K
	}
	return q.Real
}

// Bearing returns the magnetic compass bearing in degrees, in [0, 360).
func Bearing(magX, magY float64) float64 {
	b := math.Atan2(magY, magX) * (180 / math.Pi)
	if b < 0 {
		b += 360
	}
	// atan2 of a tiny negative y can round up to exactly 360.
	if b >= 360 {
		b -= 360
	}
	return b
}
