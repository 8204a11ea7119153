//go:build linux

package input

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/trailkit/internal/logic"
)

// linePin adapts a requested GPIO line to RawPin.
// Buttons pull the line to ground, so raw 0 = pressed.
type linePin struct {
	line *gpiocdev.Line
}

func (p linePin) ReadRaw() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// RealPad reads buttons from actual hardware using Linux GPIO character device.
type RealPad struct {
	chip  *gpiocdev.Chip
	lines map[logic.Button]*gpiocdev.Line
}

// NewRealPad requests one input line with pull-up per button on chipName.
func NewRealPad(chipName string, pins PinMap) (*RealPad, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPad{
		chip:  chip,
		lines: make(map[logic.Button]*gpiocdev.Line, len(pins)),
	}
	for _, b := range logic.Buttons {
		offset, ok := pins[b]
		if !ok {
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", b, offset, err)
		}
		p.lines[b] = line
	}
	return p, nil
}

// Pins returns a RawPin per requested line.
func (p *RealPad) Pins() map[logic.Button]RawPin {
	out := make(map[logic.Button]RawPin, len(p.lines))
	for b, line := range p.lines {
		out[b] = linePin{line: line}
	}
	return out
}

// Close releases GPIO resources.
// Lines are returned to input with pull-down before closing, matching the
// Pi boot defaults.
func (p *RealPad) Close() error {
	var errs []error
	for b, line := range p.lines {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", b, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", b, err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}
