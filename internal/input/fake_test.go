package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/sweeney/trailkit/internal/logic"
)

func TestFakePinReadRaw(t *testing.T) {
	f := NewFakePin(true, false, true)

	want := []bool{true, false, true, true} // last level repeats
	for i, w := range want {
		got, err := f.ReadRaw()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestFakePinNoLevels(t *testing.T) {
	f := NewFakePin()
	if _, err := f.ReadRaw(); err == nil {
		t.Error("expected error with no levels")
	}
}

func TestFakePinError(t *testing.T) {
	f := NewFakePin(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.ReadRaw()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakePinReset(t *testing.T) {
	f := NewFakePin(true, false)
	f.ReadRaw()
	f.Reset()
	got, _ := f.ReadRaw()
	if got != true {
		t.Errorf("after reset: expected true, got %v", got)
	}
}

func TestFakePadClose(t *testing.T) {
	p := NewFakePad()
	if p.Closed {
		t.Error("should not be closed initially")
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !p.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestSamplerCanonicalOrder(t *testing.T) {
	p := NewFakePad()
	p.Script(logic.ButtonDown, true)

	samples, err := NewSampler(p).Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != len(logic.Buttons) {
		t.Fatalf("expected %d samples, got %d", len(logic.Buttons), len(samples))
	}
	for i, b := range logic.Buttons {
		if samples[i].Button != b {
			t.Errorf("sample %d: expected %s, got %s", i, b, samples[i].Button)
		}
		if samples[i].Pressed != (b == logic.ButtonDown) {
			t.Errorf("sample %d: unexpected pressed=%v", i, samples[i].Pressed)
		}
	}
}

func TestSamplerPartialFailure(t *testing.T) {
	p := NewFakePad()
	p.Pin(logic.ButtonLeft).ReadError = errors.New("line busy")

	samples, err := NewSampler(p).Sample()
	if err == nil {
		t.Fatal("expected error for failed pin")
	}
	if !strings.Contains(err.Error(), "LEFT") {
		t.Errorf("error should name the button: %v", err)
	}
	if len(samples) != len(logic.Buttons)-1 {
		t.Errorf("expected %d good samples, got %d", len(logic.Buttons)-1, len(samples))
	}
	for _, s := range samples {
		if s.Button == logic.ButtonLeft {
			t.Error("failed pin must not be sampled")
		}
	}
}
