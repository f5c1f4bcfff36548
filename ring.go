package scart

// The scanout chain emits one frame as three back-to-back transfers: top
// border, active framebuffer, bottom border. xferSegment is the
// hardware-independent description of one such transfer; the rp2040 driver
// lowers each segment to a DMA descriptor in the reload ring.
type xferSegment struct {
	// border segments read a single shared border-color byte with a
	// non-incrementing read address; the active segment reads the
	// framebuffer with an incrementing one.
	border bool
	// count is the number of 8-bit transfers.
	count uint32
	// last marks the segment whose completion chains to the re-arm step
	// instead of the next descriptor reload.
	last bool
}

// descriptorWords is the size of one ring slot in 32-bit configuration
// words: control, write address, transfer count, read address. The read
// address is written last and doubles as the trigger.
const descriptorWords = 4

// Ring slot indices.
const (
	segTopBorder = iota
	segActive
	segBottomBorder
	numSegments
)

// scanSegments derives the transfer ring contents from the geometry. The
// counts sum to exactly g.FrameBytes(); the serializer consumes that many
// bytes per frame, so any mismatch here would desynchronize sync and color
// permanently.
func scanSegments(g Geometry) [numSegments]xferSegment {
	stride := uint32(g.RowStride())
	return [numSegments]xferSegment{
		segTopBorder:    {border: true, count: stride * uint32(g.TopBorderLines)},
		segActive:       {count: stride * uint32(g.Height)},
		segBottomBorder: {border: true, count: stride * uint32(g.BottomBorderLines), last: true},
	}
}
