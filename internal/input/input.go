// Package input provides button pin reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package input

import (
	"errors"
	"fmt"

	"github.com/sweeney/trailkit/internal/logic"
)

// RawPin reads the logical level of one button. true means pressed.
type RawPin interface {
	ReadRaw() (bool, error)
}

// Pad is a set of button pins polled together.
type Pad interface {
	// Pins returns the pin for each wired button.
	Pins() map[logic.Button]RawPin

	// Close releases GPIO resources.
	Close() error
}

// Default line offsets (BCM numbering) of the five-button pad.
const (
	DefaultPinSelect = 5
	DefaultPinUp     = 6
	DefaultPinDown   = 13
	DefaultPinLeft   = 19
	DefaultPinRight  = 26
)

// PinMap assigns a GPIO line offset to each button.
type PinMap map[logic.Button]int

// DefaultPinMap returns the default wiring.
func DefaultPinMap() PinMap {
	return PinMap{
		logic.ButtonSelect: DefaultPinSelect,
		logic.ButtonUp:     DefaultPinUp,
		logic.ButtonDown:   DefaultPinDown,
		logic.ButtonLeft:   DefaultPinLeft,
		logic.ButtonRight:  DefaultPinRight,
	}
}

// Sampler polls every pin of a Pad once per iteration.
type Sampler struct {
	pad Pad
}

// NewSampler creates a Sampler over pad.
func NewSampler(pad Pad) *Sampler {
	return &Sampler{pad: pad}
}

// Sample reads every pin in canonical button order. Pins that fail to read
// are left out of the result and reported in the returned error; the
// remaining samples are still valid.
func (s *Sampler) Sample() ([]logic.Sample, error) {
	pins := s.pad.Pins()
	out := make([]logic.Sample, 0, len(pins))
	var failed []error
	for _, b := range logic.Buttons {
		pin, ok := pins[b]
		if !ok {
			continue
		}
		pressed, err := pin.ReadRaw()
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", b, err))
			continue
		}
		out = append(out, logic.Sample{Button: b, Pressed: pressed})
	}
	if len(failed) > 0 {
		return out, fmt.Errorf("read pins: %w", errors.Join(failed...))
	}
	return out, nil
}
