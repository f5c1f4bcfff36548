package scart

import (
	"testing"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

// side sets the side-set field for a 1-bit side-set program.
func side(v uint16) uint16 { return v << 12 }

// delay sets the delay field; with 1 side-set bit at most 7 fits, with
// none at most 31.
func delay(n uint16) uint16 { return n << 8 }

// The instruction tables are hand-assembled hex; rebuild every word from
// the encoder primitives so a mis-typed literal cannot reach hardware.
func TestCSyncProgram(t *testing.T) {
	want := []uint16{
		pio.EncodePull(false, true) | side(1),
		pio.EncodeMov(pio.SrcDestY, pio.SrcDestOSR) | side(1),
		pio.EncodeSet(pio.SrcDestX, 8) | delay(1),
		pio.EncodeJmp(3, pio.JmpXNZeroDec) | delay(1),
		// irq nowait, built from the IRQ major opcode directly: in pio
		// v0.2.0 EncodeIRQSet drops the flag index and EncodeInstr maps
		// InstrIRQ onto the SET opcode (the InstrKind enum diverges from
		// the hardware major opcodes after PUSH/PULL), so neither can
		// produce this word.
		0xc000 | side(1) | csyncIRQ,
		pio.EncodeSet(pio.SrcDestX, 28) | side(1) | delay(1),
		pio.EncodeJmp(6, pio.JmpXNZeroDec) | side(1) | delay(7),
		pio.EncodeJmp(2, pio.JmpYNZeroDec) | side(1),
		pio.EncodeSet(pio.SrcDestX, 30) | delay(7),
		pio.EncodeJmp(9, pio.JmpXNZeroDec) | delay(7),
	}
	if len(csyncInstructions) != len(want) {
		t.Fatalf("program is %d instructions, want %d", len(csyncInstructions), len(want))
	}
	for i, instr := range csyncInstructions {
		if instr != want[i] {
			t.Errorf("instruction %d: got %#04x, want %#04x", i, instr, want[i])
		}
	}
	if csyncWrapTarget != 1 || csyncWrap != len(want)-1 {
		t.Errorf("wrap [%d,%d] does not span the per-frame body", csyncWrapTarget, csyncWrap)
	}
	// The line-release word must carry the IRQ major opcode (110) with the
	// flag index in the low bits; a SET-opcode word here would clobber a
	// scratch register every line instead of releasing the color path.
	if word := csyncInstructions[4]; word&0xe000 != 0xc000 || word&0x1f != csyncIRQ {
		t.Errorf("irq word is %#04x, want IRQ opcode with flag %d", word, csyncIRQ)
	}
}

func TestRGBProgram(t *testing.T) {
	outPixel := pio.EncodeOut(pio.SrcDestPins, 3)
	dropPad := pio.EncodeOut(pio.SrcDestNull, 1)
	want := []uint16{
		pio.EncodePull(false, true),
		pio.EncodeMov(pio.SrcDestY, pio.SrcDestOSR),
		pio.EncodeSet(pio.SrcDestPins, 0),
		pio.EncodeInstr(pio.InstrWAIT, 0, 0b110, csyncIRQ), // wait 1 irq
		pio.EncodeSet(pio.SrcDestX, 20) | delay(31),
		pio.EncodeJmp(5, pio.JmpXNZeroDec) | delay(31),
		pio.EncodeMov(pio.SrcDestX, pio.SrcDestY),
		outPixel | delay(18),
		dropPad,
		outPixel | delay(18),
		dropPad,
		outPixel | delay(18),
		dropPad,
		outPixel | delay(17),
		dropPad,
		pio.EncodeJmp(11, pio.JmpXNZeroDec),
	}
	if len(rgbInstructions) != len(want) {
		t.Fatalf("program is %d instructions, want %d", len(rgbInstructions), len(want))
	}
	for i, instr := range rgbInstructions {
		if instr != want[i] {
			t.Errorf("instruction %d: got %#04x, want %#04x", i, instr, want[i])
		}
	}
	if rgbWrapTarget != 2 || rgbWrap != len(want)-1 {
		t.Errorf("wrap [%d,%d] does not span the per-line body", rgbWrapTarget, rgbWrap)
	}
}

// Both programs must fit one PIO block's 32-slot instruction memory
// together, since they share a block to share the line IRQ.
func TestProgramsFitOneBlock(t *testing.T) {
	if n := len(csyncInstructions) + len(rgbInstructions); n > 32 {
		t.Fatalf("programs need %d instruction slots, block has 32", n)
	}
}

// Cycle-count the csync program to pin the line timing: every scan line,
// sync tip or broad pulse included, must take exactly csyncLineTicks ticks
// so lines stay 64us at the 4MHz program clock.
func TestCSyncLineTiming(t *testing.T) {
	// Scan line: set(2) + 9 iterations of jmp(2) + irq(1) + set(2) +
	// 29 iterations of jmp(8) + jmp y--(1).
	tip := 2 + 9*2
	if tip != 20 { // 5us at 4MHz
		t.Errorf("sync tip is %d ticks, want 20", tip)
	}
	line := tip + 1 + 2 + 29*8 + 1
	if line != csyncLineTicks {
		t.Errorf("scan line is %d ticks, want %d", line, csyncLineTicks)
	}
	// Field sync: set(8) + 31 iterations of jmp(8), one full line low.
	if broad := 8 + 31*8; broad != csyncLineTicks {
		t.Errorf("field sync pulse is %d ticks, want %d", broad, csyncLineTicks)
	}
}

// Cycle-count the rgb byte loop: both pixels of a byte must take
// rgbCyclesPerPixel system cycles so the pixel rate is exact.
func TestRGBPixelTiming(t *testing.T) {
	even := 19 + 1    // out pins [18] + out null
	odd := 18 + 1 + 1 // out pins [17] + out null + jmp
	if even != rgbCyclesPerPixel || odd != rgbCyclesPerPixel {
		t.Errorf("pixel cycles even=%d odd=%d, want %d", even, odd, rgbCyclesPerPixel)
	}
}

// One line's byte budget: the leading byte emitted before the loop plus
// rgbSeed()+1 looped bytes must equal the row stride.
func TestRGBLineByteBudget(t *testing.T) {
	g := DefaultGeometry()
	if got := 1 + g.rgbSeed() + 1; got != uint32(g.RowStride()) {
		t.Errorf("line emits %d bytes, want stride %d", got, g.RowStride())
	}
}
