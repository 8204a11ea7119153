// Package panel drives the physical displays: an SSD1306 OLED as the fast
// surface and a Waveshare 2.13" e-paper hat as the slow-protected surface.
package panel

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// lineHeight is the pitch of one text row in pixels.
const lineHeight = 13

// splitLines flattens texts into display rows. A text may span several rows.
func splitLines(texts []string) []string {
	var out []string
	for _, t := range texts {
		t = strings.ReplaceAll(t, "\r\n", "\n")
		out = append(out, strings.Split(t, "\n")...)
	}
	return out
}

// renderText draws lines onto a w x h gray image, one row per line.
// Only the first rowsFor(h) rows are drawn.
func renderText(w, h int, lines []string, fg, bg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Gray{Y: bg}}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: fg}),
		Face: basicfont.Face7x13,
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	for i, l := range lines {
		if i >= rowsFor(h) {
			break
		}
		d.Dot = fixed.P(0, i*lineHeight+ascent)
		d.DrawString(l)
	}
	return img
}

// rowsFor returns how many text rows fit in height h.
func rowsFor(h int) int {
	return h / lineHeight
}

// toPortrait rotates a landscape image 90 degrees clockwise.
func toPortrait(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetGray(x, y, src.GrayAt(b.Min.X+y, b.Min.Y+h-1-x))
		}
	}
	return dst
}
