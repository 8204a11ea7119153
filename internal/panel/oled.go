package panel

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"sort"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sweeney/trailkit/internal/display"
)

// drawer is the subset of a periph display device the panels use.
type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OLED is the fast surface. Widget text is kept in memory and pushed to the
// panel as one frame by Present.
type OLED struct {
	dev     drawer
	layouts map[string][]string

	view  string
	texts map[string]string
	dirty bool
}

// NewOLED opens a 128x64 SSD1306 on bus. layouts maps each view id to its
// widget ids in top-to-bottom order.
func NewOLED(bus i2c.Bus, layouts map[string][]string) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}
	log.Printf("panel: oled %v", dev.Bounds())
	return newOLED(dev, layouts), nil
}

func newOLED(dev drawer, layouts map[string][]string) *OLED {
	return &OLED{
		dev:     dev,
		layouts: layouts,
		texts:   make(map[string]string),
	}
}

func (o *OLED) Show(viewID string) error {
	if _, ok := o.layouts[viewID]; !ok && viewID != display.MenuViewID {
		return fmt.Errorf("oled: no layout for view %q", viewID)
	}
	o.view = viewID
	o.texts = make(map[string]string)
	o.dirty = true
	return nil
}

func (o *OLED) SetWidgetText(widgetID, text string) error {
	if o.view == "" {
		return fmt.Errorf("oled: widget %q written before any view", widgetID)
	}
	if o.view == display.MenuViewID {
		if !strings.HasPrefix(widgetID, display.MenuViewID+".") {
			return fmt.Errorf("oled: %q is not a menu row", widgetID)
		}
	} else if !contains(o.layouts[o.view], widgetID) {
		return fmt.Errorf("oled: view %q has no widget %q", o.view, widgetID)
	}
	if o.texts[widgetID] == text {
		return nil
	}
	o.texts[widgetID] = text
	o.dirty = true
	return nil
}

// Present draws the current view if anything changed since the last frame.
func (o *OLED) Present() error {
	if !o.dirty {
		return nil
	}
	b := o.dev.Bounds()
	lines := o.lines()
	if o.view == display.MenuViewID {
		lines = menuWindow(lines, o.selectedRow(), rowsFor(b.Dy()))
	}
	gray := renderText(b.Dx(), b.Dy(), lines, 0xFF, 0x00)
	img := image1bit.NewVerticalLSB(b)
	draw.Draw(img, b, gray, image.Point{}, draw.Src)
	if err := o.dev.Draw(b, img, image.Point{}); err != nil {
		return fmt.Errorf("oled draw: %w", err)
	}
	o.dirty = false
	return nil
}

// Halt blanks the panel.
func (o *OLED) Halt() error {
	return o.dev.Halt()
}

func (o *OLED) lines() []string {
	var texts []string
	if o.view == display.MenuViewID {
		for _, id := range o.menuRows() {
			texts = append(texts, o.texts[id])
		}
	} else {
		for _, id := range o.layouts[o.view] {
			texts = append(texts, o.texts[id])
		}
	}
	return splitLines(texts)
}

func (o *OLED) menuRows() []string {
	rows := make([]string, 0, len(o.texts))
	for id := range o.texts {
		rows = append(rows, id)
	}
	sort.Slice(rows, func(i, j int) bool {
		return menuRowIndex(rows[i]) < menuRowIndex(rows[j])
	})
	return rows
}

func (o *OLED) selectedRow() int {
	for i, id := range o.menuRows() {
		if strings.HasPrefix(o.texts[id], display.MenuCursor) {
			return i
		}
	}
	return 0
}

func menuRowIndex(id string) int {
	i, _ := strconv.Atoi(strings.TrimPrefix(id, display.MenuViewID+"."))
	return i
}

// menuWindow scrolls rows so that selected is visible in a window of n rows.
func menuWindow(rows []string, selected, n int) []string {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	start := 0
	if selected >= n {
		start = selected - n + 1
	}
	return rows[start : start+n]
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
