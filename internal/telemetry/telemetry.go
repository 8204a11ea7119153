// Package telemetry reads battery, inertial and environmental data and keeps
// the last good reading of each group when a sensor stops answering.
package telemetry

import (
	"errors"
	"fmt"
)

// ErrSensorUnavailable is wrapped by every failed read.
var ErrSensorUnavailable = errors.New("sensor unavailable")

// Group names a set of values read together from one sensor.
type Group string

const (
	GroupBattery     Group = "battery"
	GroupInertial    Group = "inertial"
	GroupEnvironment Group = "environment"
)

// Groups lists every telemetry group in read order.
var Groups = []Group{GroupBattery, GroupInertial, GroupEnvironment}

// Battery is a fuel-gauge reading.
type Battery struct {
	Voltage    float64 // volts
	Percent    float64 // state of charge, 0-100
	ChargeRate float64 // %/hr, negative while discharging
}

// Vec3 is a three-axis reading.
type Vec3 struct {
	X, Y, Z float64
}

// Quat is a rotation vector quaternion.
type Quat struct {
	I, J, K, Real float64
}

// Inertial is an IMU reading.
type Inertial struct {
	Accel   Vec3 // m/s^2
	Gyro    Vec3 // rad/s
	Mag     Vec3 // uT
	Quat    Quat
	HasQuat bool // false when the IMU does not report orientation
}

// Environment is an environmental sensor reading.
type Environment struct {
	TempC       float64
	HumidityPct float64
	PressureHPa float64
}

// Source is a pull-based telemetry provider. Each call may fail with an
// error wrapping ErrSensorUnavailable.
type Source interface {
	ReadBattery() (Battery, error)
	ReadInertial() (Inertial, error)
	ReadEnvironment() (Environment, error)
}

// unavailable wraps cause so that errors.Is(err, ErrSensorUnavailable) holds.
func unavailable(g Group, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", g, ErrSensorUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", g, ErrSensorUnavailable, cause)
}

// Missing is a Source for a device without any of the sensors.
// Every read fails.
type Missing struct{}

func (Missing) ReadBattery() (Battery, error) {
	return Battery{}, unavailable(GroupBattery, errors.New("not fitted"))
}

func (Missing) ReadInertial() (Inertial, error) {
	return Inertial{}, unavailable(GroupInertial, errors.New("not fitted"))
}

func (Missing) ReadEnvironment() (Environment, error) {
	return Environment{}, unavailable(GroupEnvironment, errors.New("not fitted"))
}
