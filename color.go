package scart

import "image/color"

// Color is a 3-bit RGB color, one bit per channel. The bit order matches
// what the rgb state machine shifts out to the color pins: red is the
// least significant bit, blue the most significant.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// colorMask covers the 3 color bits of a packed nibble. The fourth nibble
// bit is unused padding.
const colorMask = 0b111

// ColorFromRGBA quantizes a color.RGBA to the nearest 3-bit color by
// thresholding each channel at half intensity.
func ColorFromRGBA(c color.RGBA) Color {
	var cc Color
	if c.R >= 0x80 {
		cc |= Red
	}
	if c.G >= 0x80 {
		cc |= Green
	}
	if c.B >= 0x80 {
		cc |= Blue
	}
	return cc
}

// RGBA returns the full-intensity color.RGBA equivalent of c.
func (c Color) RGBA() color.RGBA {
	rgba := color.RGBA{A: 0xff}
	if c&Red != 0 {
		rgba.R = 0xff
	}
	if c&Green != 0 {
		rgba.G = 0xff
	}
	if c&Blue != 0 {
		rgba.B = 0xff
	}
	return rgba
}
