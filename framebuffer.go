package scart

// Framebuffer is the packed pixel store the data channel streams out. Two
// adjacent pixels share a byte: the even x-index occupies the low nibble,
// the odd x-index the high nibble. A zeroed buffer is all black.
//
// The buffer has exactly one writer class (application code) and one reader
// (the data DMA channel). There is no synchronization between them; a write
// that races an in-flight scan of the same region is visible as tearing for
// one frame and is accepted.
type Framebuffer struct {
	geom Geometry
	pix  []byte
}

// NewFramebuffer allocates a zeroed framebuffer for the given geometry.
func NewFramebuffer(geom Geometry) (*Framebuffer, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Framebuffer{
		geom: geom,
		pix:  make([]byte, geom.ActiveBytes()),
	}, nil
}

// Geometry returns the geometry the framebuffer was created with.
func (fb *Framebuffer) Geometry() Geometry { return fb.geom }

// Pix returns the raw packed pixel storage. The data channel reads it
// continuously; callers may mutate it at any time.
func (fb *Framebuffer) Pix() []byte { return fb.pix }

// DrawPixel ORs a 3-bit color into the pixel at (x, y). Coordinates are
// clamped to the display edges, so out-of-range writes land on the nearest
// edge pixel rather than failing.
//
// Two caller obligations, by contract rather than checked at runtime:
//   - c must be at most White (7). Higher bits spill into the adjacent
//     pixel's nibble.
//   - the write is an OR, not an assignment. Drawing RED then GREEN on the
//     same pixel yields YELLOW. Use ReplacePixel or Clear between draws
//     when overwrite semantics are wanted.
func (fb *Framebuffer) DrawPixel(x, y int, c Color) {
	idx, odd := fb.pixelIndex(x, y)
	if odd {
		fb.pix[idx] |= byte(c) << 4
	} else {
		fb.pix[idx] |= byte(c)
	}
}

// ReplacePixel sets the pixel at (x, y) to c, discarding whatever was
// drawn there before. Coordinates clamp like DrawPixel; c is masked to 3
// bits.
func (fb *Framebuffer) ReplacePixel(x, y int, c Color) {
	idx, odd := fb.pixelIndex(x, y)
	if odd {
		fb.pix[idx] = fb.pix[idx]&0x0f | byte(c&colorMask)<<4
	} else {
		fb.pix[idx] = fb.pix[idx]&0xf0 | byte(c&colorMask)
	}
}

// ColorAt reads back the pixel at (x, y), with the same coordinate
// clamping as DrawPixel.
func (fb *Framebuffer) ColorAt(x, y int) Color {
	idx, odd := fb.pixelIndex(x, y)
	if odd {
		return Color(fb.pix[idx] >> 4 & colorMask)
	}
	return Color(fb.pix[idx] & colorMask)
}

// Fill sets every pixel to c.
func (fb *Framebuffer) Fill(c Color) {
	packed := byte(c&colorMask) | byte(c&colorMask)<<4
	for i := range fb.pix {
		fb.pix[i] = packed
	}
}

// Clear sets every pixel to black. This is the natural point between which
// DrawPixel's write-once obligation holds.
func (fb *Framebuffer) Clear() {
	for i := range fb.pix {
		fb.pix[i] = 0
	}
}

// pixelIndex clamps (x, y) and returns the packed byte offset and whether
// the pixel sits in the high (odd) nibble. Both axes clamp to the last
// valid pixel; y == Height lands on the bottom row.
func (fb *Framebuffer) pixelIndex(x, y int) (idx int, odd bool) {
	if x < 0 {
		x = 0
	} else if x >= fb.geom.Width {
		x = fb.geom.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= fb.geom.Height {
		y = fb.geom.Height - 1
	}
	pixel := fb.geom.Width*y + x
	return pixel >> 1, pixel&1 != 0
}
