package telemetry

import (
	"errors"
	"fmt"
	"log"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/drivers/lsm9ds1"
)

// Fitted lists which sensors are present on the board.
type Fitted struct {
	Battery     bool
	Inertial    bool
	Environment bool
}

const standardGravity = 9.80665

// RealSource reads sensors on a shared I2C bus.
// periph's i2c.Bus satisfies tinygo's drivers.I2C, so the tinygo drivers
// run on it unchanged.
type RealSource struct {
	gauge *fuelGauge
	imu   *lsm9ds1.Device
	env   *bme280.Device
}

// NewRealSource probes each fitted sensor on bus. A fitted sensor that does
// not answer is logged and treated as unavailable rather than failing
// startup, so the instrument still boots with a damaged sensor.
func NewRealSource(bus i2c.Bus, fit Fitted) *RealSource {
	if err := bus.SetSpeed(400 * physic.KiloHertz); err != nil {
		log.Printf("telemetry: i2c speed not set: %v", err)
	}

	s := &RealSource{}

	if fit.Battery {
		g := newFuelGauge(bus)
		if err := g.probe(); err != nil {
			log.Printf("telemetry: fuel gauge not responding: %v", err)
		} else {
			s.gauge = g
		}
	}

	if fit.Inertial {
		imu := lsm9ds1.New(bus)
		err := imu.Configure(lsm9ds1.Configuration{
			AccelRange:      lsm9ds1.ACCEL_2G,
			AccelSampleRate: lsm9ds1.ACCEL_SR_119,
			AccelBandWidth:  lsm9ds1.ACCEL_BW_50,
			GyroRange:       lsm9ds1.GYRO_250DPS,
			GyroSampleRate:  lsm9ds1.GYRO_SR_119,
			MagRange:        lsm9ds1.MAG_4G,
			MagSampleRate:   lsm9ds1.MAG_SR_10,
		})
		if err != nil {
			log.Printf("telemetry: imu not responding: %v", err)
		} else {
			s.imu = imu
		}
	}

	if fit.Environment {
		env := bme280.New(bus)
		if !env.Connected() {
			log.Printf("telemetry: environment sensor not responding")
		} else {
			env.Configure()
			s.env = &env
		}
	}

	return s
}

func (s *RealSource) ReadBattery() (Battery, error) {
	if s.gauge == nil {
		return Battery{}, unavailable(GroupBattery, errors.New("not fitted"))
	}
	b, err := s.gauge.read()
	if err != nil {
		return Battery{}, unavailable(GroupBattery, err)
	}
	return b, nil
}

func (s *RealSource) ReadInertial() (Inertial, error) {
	if s.imu == nil {
		return Inertial{}, unavailable(GroupInertial, errors.New("not fitted"))
	}
	ax, ay, az, err := s.imu.ReadAcceleration()
	if err != nil {
		return Inertial{}, unavailable(GroupInertial, fmt.Errorf("accel: %w", err))
	}
	gx, gy, gz, err := s.imu.ReadRotation()
	if err != nil {
		return Inertial{}, unavailable(GroupInertial, fmt.Errorf("gyro: %w", err))
	}
	mx, my, mz, err := s.imu.ReadMagneticField()
	if err != nil {
		return Inertial{}, unavailable(GroupInertial, fmt.Errorf("mag: %w", err))
	}
	return Inertial{
		Accel: Vec3{X: microGToMS2(ax), Y: microGToMS2(ay), Z: microGToMS2(az)},
		Gyro:  Vec3{X: microDegToRad(gx), Y: microDegToRad(gy), Z: microDegToRad(gz)},
		Mag:   Vec3{X: nanoTeslaToMicro(mx), Y: nanoTeslaToMicro(my), Z: nanoTeslaToMicro(mz)},
	}, nil
}

func (s *RealSource) ReadEnvironment() (Environment, error) {
	if s.env == nil {
		return Environment{}, unavailable(GroupEnvironment, errors.New("not fitted"))
	}
	t, err := s.env.ReadTemperature()
	if err != nil {
		return Environment{}, unavailable(GroupEnvironment, fmt.Errorf("temperature: %w", err))
	}
	h, err := s.env.ReadHumidity()
	if err != nil {
		return Environment{}, unavailable(GroupEnvironment, fmt.Errorf("humidity: %w", err))
	}
	p, err := s.env.ReadPressure()
	if err != nil {
		return Environment{}, unavailable(GroupEnvironment, fmt.Errorf("pressure: %w", err))
	}
	return Environment{
		TempC:       float64(t) / 1000,
		HumidityPct: float64(h) / 100,
		PressureHPa: milliPascalToHPa(p),
	}, nil
}

// lsm9ds1 reports acceleration in µg.
func microGToMS2(v int32) float64 {
	return float64(v) / 1e6 * standardGravity
}

// lsm9ds1 reports rotation in µ°/s.
func microDegToRad(v int32) float64 {
	return float64(v) / 1e6 * math.Pi / 180
}

// lsm9ds1 reports magnetic field in nT.
func nanoTeslaToMicro(v int32) float64 {
	return float64(v) / 1000
}

// bme280 reports pressure in mPa.
func milliPascalToHPa(v int32) float64 {
	return float64(v) / 100000
}
