package telemetry

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFuelGaugeRead(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			// VCELL = 0xC1C0 -> 49600 * 78.125uV = 3.875V
			{Addr: max17048Addr, W: []byte{regVCell}, R: []byte{0xC1, 0xC0}},
			// SOC = 0x4C66 -> 76 + 0x66/256 %
			{Addr: max17048Addr, W: []byte{regSOC}, R: []byte{0x4C, 0x66}},
			// CRATE = -10 LSB -> -2.08 %/hr
			{Addr: max17048Addr, W: []byte{regCRate}, R: []byte{0xFF, 0xF6}},
		},
		DontPanic: true,
	}

	b, err := newFuelGauge(bus).read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(b.Voltage, 3.875, 1e-9) {
		t.Errorf("voltage: got %v", b.Voltage)
	}
	if !near(b.Percent, 76+float64(0x66)/256, 1e-9) {
		t.Errorf("percent: got %v", b.Percent)
	}
	if !near(b.ChargeRate, -2.08, 1e-9) {
		t.Errorf("charge rate: got %v", b.ChargeRate)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("playback not drained: %v", err)
	}
}

func TestFuelGaugePercentCapped(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: max17048Addr, W: []byte{regVCell}, R: []byte{0xD7, 0x00}},
			// SOC = 0x6580 -> 101.5%
			{Addr: max17048Addr, W: []byte{regSOC}, R: []byte{0x65, 0x80}},
			{Addr: max17048Addr, W: []byte{regCRate}, R: []byte{0x00, 0x00}},
		},
		DontPanic: true,
	}

	b, err := newFuelGauge(bus).read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Percent != 100 {
		t.Errorf("percent: got %v, want 100", b.Percent)
	}
}

func TestFuelGaugeProbe(t *testing.T) {
	good := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: max17048Addr, W: []byte{regVersion}, R: []byte{0x00, 0x12}}},
		DontPanic: true,
	}
	if err := newFuelGauge(good).probe(); err != nil {
		t.Errorf("expected probe to pass: %v", err)
	}

	wrong := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: max17048Addr, W: []byte{regVersion}, R: []byte{0xAB, 0xCD}}},
		DontPanic: true,
	}
	if err := newFuelGauge(wrong).probe(); err == nil {
		t.Error("expected probe to reject unknown version")
	}
}

func TestFuelGaugeBusError(t *testing.T) {
	// No ops scripted: the first Tx fails.
	bus := &i2ctest.Playback{DontPanic: true}
	if _, err := newFuelGauge(bus).read(); err == nil {
		t.Error("expected bus error")
	}
}

func TestRealSourceNothingFitted(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	s := NewRealSource(bus, Fitted{})

	if _, err := s.ReadBattery(); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("battery: expected ErrSensorUnavailable, got %v", err)
	}
	if _, err := s.ReadInertial(); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("inertial: expected ErrSensorUnavailable, got %v", err)
	}
	if _, err := s.ReadEnvironment(); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("environment: expected ErrSensorUnavailable, got %v", err)
	}
}

func TestRealSourceGaugeMissingAtProbe(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	s := NewRealSource(bus, Fitted{Battery: true})
	if s.gauge != nil {
		t.Fatal("gauge must be dropped when probe fails")
	}
	if _, err := s.ReadBattery(); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("expected ErrSensorUnavailable, got %v", err)
	}
}

func TestUnitConversions(t *testing.T) {
	if got := microGToMS2(1000000); !near(got, standardGravity, 1e-9) {
		t.Errorf("1g: got %v", got)
	}
	if got := microDegToRad(180000000); !near(got, math.Pi, 1e-9) {
		t.Errorf("180 deg/s: got %v", got)
	}
	if got := nanoTeslaToMicro(-42500); !near(got, -42.5, 1e-9) {
		t.Errorf("nT: got %v", got)
	}
	if got := milliPascalToHPa(101325000); !near(got, 1013.25, 1e-9) {
		t.Errorf("hPa: got %v", got)
	}
}
