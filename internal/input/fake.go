package input

import (
	"errors"

	"github.com/sweeney/trailkit/internal/logic"
)

// FakePin is a test double that returns scripted levels.
type FakePin struct {
	// Levels contains scripted pressed values to return.
	// Each call to ReadRaw() consumes the next level.
	Levels []bool

	// index tracks current position in Levels
	index int

	// ReadError, if set, will be returned by ReadRaw()
	ReadError error
}

// NewFakePin creates a FakePin with the given levels.
func NewFakePin(levels ...bool) *FakePin {
	return &FakePin{Levels: levels}
}

// ReadRaw returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakePin) ReadRaw() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Levels) == 0 {
		return false, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}

// Reset rewinds the pin to its first level.
func (f *FakePin) Reset() {
	f.index = 0
}

// FakePad is a Pad made of FakePins.
type FakePad struct {
	pins map[logic.Button]*FakePin

	// Closed tracks if Close was called
	Closed bool
}

// NewFakePad creates a pad with a released FakePin for every button.
func NewFakePad() *FakePad {
	p := &FakePad{pins: make(map[logic.Button]*FakePin, len(logic.Buttons))}
	for _, b := range logic.Buttons {
		p.pins[b] = NewFakePin(false)
	}
	return p
}

// Pin returns the fake pin for b.
func (p *FakePad) Pin(b logic.Button) *FakePin {
	return p.pins[b]
}

// Script replaces the levels of b.
func (p *FakePad) Script(b logic.Button, levels ...bool) {
	p.pins[b] = NewFakePin(levels...)
}

// Pins returns every fake pin as a RawPin.
func (p *FakePad) Pins() map[logic.Button]RawPin {
	out := make(map[logic.Button]RawPin, len(p.pins))
	for b, pin := range p.pins {
		out[b] = pin
	}
	return out
}

// Close marks the pad as closed.
func (p *FakePad) Close() error {
	p.Closed = true
	return nil
}
