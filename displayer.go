//go:build rp2040

package scart

import (
	"image/color"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Device)(nil)

// Size returns the active region dimensions.
func (d *Device) Size() (x, y int16) {
	return int16(d.fb.geom.Width), int16(d.fb.geom.Height)
}

// SetPixel implements drivers.Displayer. The color quantizes to the 3-bit
// palette and overwrites the pixel, so repeated SetPixel calls behave like
// every other Displayer; the additive DrawPixel contract stays confined to
// the native API.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	d.fb.ReplacePixel(int(x), int(y), ColorFromRGBA(c))
}

// Display implements drivers.Displayer. Scanout is continuous: the DMA
// chain re-reads the framebuffer every frame, so there is no buffer to
// flush and Display never fails.
func (d *Device) Display() error { return nil }
