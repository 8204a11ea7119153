package panel

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"

	"github.com/sweeney/trailkit/internal/display"
)

// epd is the subset of the e-paper driver the panel uses.
type epd interface {
	drawer
	Init() error
	Sleep() error
}

// Landscape size of the 2.13" panel. The controller is portrait.
const (
	epaperWidth  = 250
	epaperHeight = 122
)

var errNothingStaged = errors.New("epaper: nothing staged")

// EPaper is the slow-protected surface. Draw only renders in memory; Commit
// wakes the controller, pushes the frame and puts it back to sleep.
type EPaper struct {
	dev    epd
	staged *image.Gray
	frame  display.Frame
}

// NewEPaper opens the Waveshare 2.13" V4 hat on port and clears it.
func NewEPaper(port spi.Port) (*EPaper, error) {
	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		return nil, fmt.Errorf("open e-paper: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("init e-paper: %w", err)
	}
	e := newEPaper(dev)
	if err := e.blank(); err != nil {
		return nil, err
	}
	log.Printf("panel: e-paper %v", dev.Bounds())
	return e, nil
}

func newEPaper(dev epd) *EPaper {
	return &EPaper{dev: dev}
}

func (e *EPaper) Draw(f display.Frame) error {
	e.staged = renderText(epaperWidth, epaperHeight, splitLines(f.Lines), 0x00, 0xFF)
	e.frame = f
	return nil
}

func (e *EPaper) Commit() error {
	if e.staged == nil {
		return errNothingStaged
	}
	if err := e.dev.Init(); err != nil {
		return fmt.Errorf("epaper wake: %w", err)
	}
	if err := e.push(toPortrait(e.staged)); err != nil {
		return err
	}
	if err := e.dev.Sleep(); err != nil {
		return fmt.Errorf("epaper sleep: %w", err)
	}
	log.Printf("panel: e-paper committed view=%s page=%d", e.frame.ViewID, e.frame.Page)
	e.staged = nil
	return nil
}

// Halt powers the controller down.
func (e *EPaper) Halt() error {
	return e.dev.Halt()
}

func (e *EPaper) blank() error {
	b := e.dev.Bounds()
	white := renderText(b.Dx(), b.Dy(), nil, 0x00, 0xFF)
	if err := e.push(white); err != nil {
		return err
	}
	if err := e.dev.Sleep(); err != nil {
		return fmt.Errorf("epaper sleep: %w", err)
	}
	return nil
}

func (e *EPaper) push(src *image.Gray) error {
	b := e.dev.Bounds()
	img := image1bit.NewVerticalLSB(b)
	draw.Draw(img, b, src, image.Point{}, draw.Src)
	if err := e.dev.Draw(b, img, image.Point{}); err != nil {
		return fmt.Errorf("epaper draw: %w", err)
	}
	return nil
}
