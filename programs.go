package scart

// The two timing generator programs, hand-assembled. Both run on the same
// PIO block and are started by one synchronized enable so their clock
// dividers tick in lock-step.
//
// csync produces the composite sync waveform on its side-set pin: per scan
// line a 5us sync tip, then IRQ 1 at the start of the back porch to release
// the color path for that line. After the seeded number of lines it emits a
// single line-length broad pulse as field sync. At the 4MHz program clock a
// line is exactly 256 ticks = 64us (PAL).
//
// rgb serializes framebuffer bytes to the three consecutive color pins. Per
// line it blanks the pins, waits for csync's IRQ, holds off for the back
// porch, then shifts two 3-bit pixels out of each byte: low nibble first,
// one padding bit discarded after each pixel. Every pixel takes 20 system
// clock cycles (6.25 Mpx/s at 125MHz). A line is one leading byte plus
// rgbSeed()+1 looped bytes, exactly Width/2 bytes.
//
// Each program pulls its seed value once before its wrap target; the seeds
// are pushed into the TX FIFOs before the state machines are enabled.

const (
	// csyncIRQ is the PIO IRQ flag csync raises once per scan line and rgb
	// blocks on. Flags 4..7 would not be routed differently; 1 simply
	// avoids flag 0 which the system-level handlers conventionally take.
	csyncIRQ = 1

	// rgbCyclesPerPixel is the rgb program's per-pixel budget in system
	// clock cycles. With a 125MHz system clock this is a 6.25MHz pixel
	// clock against the 6.17MHz PAL square-pixel rate; the ~1% stretch is
	// absorbed by the horizontal borders.
	rgbCyclesPerPixel = 20

	// csyncFrequency is the csync program clock. One scan line is
	// csyncLineTicks ticks at this rate.
	csyncFrequency = 4_000_000
	csyncLineTicks = 256
)

// csync, .side_set 1 (sync pin, active low).
const (
	csyncWrapTarget = 1
	csyncWrap       = 9
	csyncOrigin     = -1
)

var csyncInstructions = []uint16{
	//             pull block          side 1      ; seed: total scan lines - 1
	0x90a0,
	//     .wrap_target
	//             mov y, osr          side 1      ; per frame: reload line countdown
	0xb047,
	// lineloop:
	//             set x, 8            side 0 [1]  ; sync tip: 2 + 9*2 = 20 ticks (5us)
	0xe128,
	// synclow:
	//             jmp x--, synclow    side 0 [1]
	0x0143,
	//             irq nowait 1        side 1      ; back porch begins; release color path
	0xd001,
	//             set x, 28           side 1 [1]  ; line remainder: 1+2+29*8+1 = 236 ticks
	0xf13c,
	// synchigh:
	//             jmp x--, synchigh   side 1 [7]
	0x1746,
	//             jmp y--, lineloop   side 1
	0x1082,
	//             set x, 30           side 0 [7]  ; field sync: 8 + 31*8 = 256-tick broad pulse
	0xe73e,
	// vsync:
	//             jmp x--, vsync      side 0 [7]
	0x0749,
	//     .wrap
}

// rgb, out pins = set pins = the 3 color pins. OSR shifts right with
// autopull at 8 bits, so the low nibble of each byte leaves first.
const (
	rgbWrapTarget = 2
	rgbWrap       = 15
	rgbOrigin     = -1
)

var rgbInstructions = []uint16{
	//             pull block                      ; seed: width/2 - 2
	0x80a0,
	//             mov y, osr
	0xa047,
	//     .wrap_target
	//             set pins, 0                     ; blank during sync and porches
	0xe000,
	//             wait 1 irq 1                    ; line released at back porch start
	0x20c1,
	//             set x, 20           [31]        ; back porch hold-off: 32 + 21*32 cycles (5.6us)
	0xff34,
	// porch:
	//             jmp x--, porch      [31]
	0x1f45,
	//             mov x, y                        ; per line: bytes remaining after the first
	0xa022,
	//             out pins, 3         [18]        ; leading byte, even pixel
	0x7203,
	//             out null, 1                     ; discard nibble padding bit
	0x6061,
	//             out pins, 3         [18]        ; leading byte, odd pixel
	0x7203,
	//             out null, 1
	0x6061,
	// colorout:
	//             out pins, 3         [18]        ; even pixel
	0x7203,
	//             out null, 1
	0x6061,
	//             out pins, 3         [17]        ; odd pixel, one cycle for the jmp
	0x7103,
	//             out null, 1
	0x6061,
	//             jmp x--, colorout
	0x004b,
	//     .wrap
}
