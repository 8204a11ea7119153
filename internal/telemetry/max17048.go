package telemetry

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/sweeney/trailkit/internal/mathx"
)

// MAX17048 fuel gauge registers.
const (
	max17048Addr = 0x36

	regVCell   = 0x02
	regSOC     = 0x04
	regVersion = 0x08
	regCRate   = 0x16
)

// Register scales from the MAX17048 datasheet.
const (
	vcellVoltsPerLSB = 78.125e-6
	socPercentPerLSB = 1.0 / 256
	crateRatePerLSB  = 0.208
)

// fuelGauge reads a MAX17048 over I2C.
type fuelGauge struct {
	dev *i2c.Dev
}

func newFuelGauge(bus i2c.Bus) *fuelGauge {
	return &fuelGauge{dev: &i2c.Dev{Bus: bus, Addr: max17048Addr}}
}

func (g *fuelGauge) readReg(reg byte) (uint16, error) {
	var r [2]byte
	if err := g.dev.Tx([]byte{reg}, r[:]); err != nil {
		return 0, fmt.Errorf("read reg %#02x: %w", reg, err)
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

// probe checks the VERSION register answers with a MAX1704x id.
func (g *fuelGauge) probe() error {
	v, err := g.readReg(regVersion)
	if err != nil {
		return err
	}
	if v&0xFFF0 != 0x0010 {
		return fmt.Errorf("unexpected version %#04x", v)
	}
	return nil
}

func (g *fuelGauge) read() (Battery, error) {
	vcell, err := g.readReg(regVCell)
	if err != nil {
		return Battery{}, err
	}
	soc, err := g.readReg(regSOC)
	if err != nil {
		return Battery{}, err
	}
	crate, err := g.readReg(regCRate)
	if err != nil {
		return Battery{}, err
	}
	// SOC overshoots 100% on a full cell until the model settles.
	return Battery{
		Voltage:    float64(vcell) * vcellVoltsPerLSB,
		Percent:    mathx.Clamp(float64(soc)*socPercentPerLSB, 0, 100),
		ChargeRate: float64(int16(crate)) * crateRatePerLSB,
	}, nil
}
