package scart

import "errors"

var (
	errWidthOdd      = errors.New("scart: width must be even")
	errWidthShort    = errors.New("scart: width must be at least 4")
	errHeightShort   = errors.New("scart: height must be at least 1")
	errBorderMissing = errors.New("scart: border regions must span at least 1 line")
)

// Geometry describes the raster the driver produces. It is fixed at device
// creation; the two timing state machines are seeded from it and never
// reprogrammed, so a Geometry that does not match the display's line rate
// shows up as a rolled or skewed picture, not as an error.
type Geometry struct {
	// Width and Height are the active pixel region dimensions.
	Width  int
	Height int
	// TopBorderLines and BottomBorderLines are scan lines filled with the
	// border color above and below the active region. Together with Height
	// they make up every line of the frame, so they also set the vertical
	// blanking budget.
	TopBorderLines    int
	BottomBorderLines int
}

// DefaultGeometry returns a 320x240 active region inside a 312-line PAL
// frame, split 32 border lines on top and 40 below.
func DefaultGeometry() Geometry {
	return Geometry{Width: 320, Height: 240, TopBorderLines: 32, BottomBorderLines: 40}
}

// Validate checks the geometry against the constraints of the packed
// framebuffer and the serializer seed values. It does not (cannot) check
// that the line count matches the attached display.
func (g Geometry) Validate() error {
	switch {
	case g.Width&1 != 0:
		return errWidthOdd
	case g.Width < 4:
		// The color serializer is seeded with Width/2 - 2.
		return errWidthShort
	case g.Height < 1:
		return errHeightShort
	case g.TopBorderLines < 1 || g.BottomBorderLines < 1:
		// Every transfer ring slot must describe at least one line.
		return errBorderMissing
	}
	return nil
}

// RowStride is the number of framebuffer bytes per scan line, two pixels
// per byte.
func (g Geometry) RowStride() int { return g.Width / 2 }

// TotalLines is the full frame height including both borders. The sum of
// the three transfer ring slot counts equals RowStride*TotalLines by
// construction.
func (g Geometry) TotalLines() int { return g.TopBorderLines + g.Height + g.BottomBorderLines }

// ActiveBytes is the framebuffer length.
func (g Geometry) ActiveBytes() int { return g.RowStride() * g.Height }

// FrameBytes is the number of byte transfers the color serializer consumes
// per frame.
func (g Geometry) FrameBytes() int { return g.RowStride() * g.TotalLines() }

// csyncSeed is the initial countdown pushed to the sync generator before
// the synchronized enable: one sync pulse per scan line.
func (g Geometry) csyncSeed() uint32 { return uint32(g.TotalLines() - 1) }

// rgbSeed is the initial countdown pushed to the color serializer: the
// per-line byte loop count, excluding the leading byte the program emits
// on its wrap path.
func (g Geometry) rgbSeed() uint32 { return uint32(g.Width/2 - 2) }
