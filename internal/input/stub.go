//go:build !linux

package input

import (
	"errors"

	"github.com/sweeney/trailkit/internal/logic"
)

// RealPad is not available on non-Linux platforms.
type RealPad struct{}

// NewRealPad returns an error on non-Linux platforms.
func NewRealPad(chipName string, pins PinMap) (*RealPad, error) {
	return nil, errors.New("input: not supported on this platform (requires Linux)")
}

// Pins returns no pins on non-Linux platforms.
func (p *RealPad) Pins() map[logic.Button]RawPin {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (p *RealPad) Close() error {
	return nil
}
