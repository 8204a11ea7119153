package telemetry

// FakeSource is a test double that returns scripted readings.
// Setting an *Error field makes the matching read fail with an error
// wrapping ErrSensorUnavailable.
type FakeSource struct {
	Battery     Battery
	Inertial    Inertial
	Environment Environment

	BatteryError     error
	InertialError    error
	EnvironmentError error

	// Reads counts calls per group.
	Reads map[Group]int
}

// NewFakeSource creates a FakeSource with plausible default readings.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		Battery: Battery{Voltage: 3.87, Percent: 76.4, ChargeRate: -2.1},
		Inertial: Inertial{
			Accel: Vec3{X: 0.02, Y: -0.11, Z: 9.81},
			Gyro:  Vec3{X: 0.0012, Y: -0.0004, Z: 0.0031},
			Mag:   Vec3{X: 21.5, Y: 21.5, Z: -40.2},
		},
		Environment: Environment{TempC: 18.3, HumidityPct: 54.3, PressureHPa: 1013.2},
		Reads:       make(map[Group]int),
	}
}

func (f *FakeSource) count(g Group) {
	if f.Reads == nil {
		f.Reads = make(map[Group]int)
	}
	f.Reads[g]++
}

func (f *FakeSource) ReadBattery() (Battery, error) {
	f.count(GroupBattery)
	if f.BatteryError != nil {
		return Battery{}, unavailable(GroupBattery, f.BatteryError)
	}
	return f.Battery, nil
}

func (f *FakeSource) ReadInertial() (Inertial, error) {
	f.count(GroupInertial)
	if f.InertialError != nil {
		return Inertial{}, unavailable(GroupInertial, f.InertialError)
	}
	return f.Inertial, nil
}

func (f *FakeSource) ReadEnvironment() (Environment, error) {
	f.count(GroupEnvironment)
	if f.EnvironmentError != nil {
		return Environment{}, unavailable(GroupEnvironment, f.EnvironmentError)
	}
	return f.Environment, nil
}
