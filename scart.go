//go:build rp2040

package scart

import (
	"device/rp"
	"machine"
	"unsafe"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

// Config describes the display attachment. All of it is fixed at New; the
// timing programs and transfer ring are built from it once and never touched
// again.
type Config struct {
	// Geometry of the produced raster. The zero value selects
	// DefaultGeometry.
	Geometry Geometry
	// CSync is the composite sync output pin.
	CSync machine.Pin
	// RGBBase is the first of three consecutive GPIOs carrying red, green
	// and blue, in that order.
	RGBBase machine.Pin
	// Border is the color of the top and bottom border regions.
	Border Color
}

// Device is a free-running SCART/VGA raster output. After New returns, the
// scanout pipeline is entirely hardware-driven: two PIO state machines
// produce sync and serialize color while a three-channel DMA chain feeds
// them border and framebuffer bytes forever. The processor's only remaining
// role is mutating the framebuffer, which the next scan pass picks up
// automatically.
//
// There is no shutdown path; the device runs until chip reset.
type Device struct {
	fb      *Framebuffer
	syncSM  pio.StateMachine
	colorSM pio.StateMachine

	csyncOffset uint8
	rgbOffset   uint8

	// data executes the current ring descriptor, paced by the color
	// serializer's DREQ. reload copies the next descriptor onto data's
	// trigger alias. arm points reload back at ring[0] after a full pass.
	data   dmaChannel
	reload dmaChannel
	arm    dmaChannel

	// ring is read by the reload channel, one descriptor per data
	// transfer. ringAddr is the cell the arm channel copies into the
	// reload channel's read address; borderPx is the single byte the
	// border descriptors read non-incrementing.
	ring     [numSegments]dmaDescriptor
	ringAddr uint32
	borderPx byte
}

// New claims syncSM and colorSM, loads the timing programs, builds the
// framebuffer and transfer ring, and starts the self-sustaining scanout.
// Both state machines must belong to the same PIO block. Any resource
// acquisition failure unwinds what was acquired and returns the error;
// there is no partially-running mode.
func New(syncSM, colorSM pio.StateMachine, cfg Config) (*Device, error) {
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = DefaultGeometry()
	}
	if err := cfg.Geometry.Validate(); err != nil {
		return nil, err
	}
	if cfg.Border > White {
		return nil, errBadBorder
	}
	if cfg.RGBBase+2 > 29 || cfg.CSync > 29 {
		return nil, errPinRange
	}
	if syncSM.PIO() != colorSM.PIO() {
		// The synchronized enable is a single CTRL write; that only
		// covers state machines of one block.
		return nil, errDifferentPIOs
	}
	if syncSM.StateMachineIndex() == colorSM.StateMachineIndex() {
		return nil, errSameSM
	}
	syncSM.TryClaim() // SMs should be claimed beforehand, we just guarantee it.
	colorSM.TryClaim()

	fb, err := NewFramebuffer(cfg.Geometry)
	if err != nil {
		return nil, err
	}
	d := &Device{
		fb:       fb,
		syncSM:   syncSM,
		colorSM:  colorSM,
		borderPx: byte(cfg.Border) | byte(cfg.Border)<<4,
	}

	Pio := syncSM.PIO()
	d.csyncOffset, err = Pio.AddProgram(csyncInstructions, csyncOrigin)
	if err != nil {
		return nil, err
	}
	d.rgbOffset, err = Pio.AddProgram(rgbInstructions, rgbOrigin)
	if err != nil {
		Pio.ClearProgramSection(d.csyncOffset, uint8(len(csyncInstructions)))
		return nil, err
	}

	if err := d.initStateMachines(cfg); err != nil {
		d.releasePrograms()
		return nil, err
	}
	if err := d.initChain(cfg.Geometry); err != nil {
		d.releasePrograms()
		return nil, err
	}

	// Seed the generators' countdowns, then let them loose on the same
	// clock edge. The color serializer immediately stalls waiting for
	// csync's first line IRQ and for FIFO data. Both state machines are
	// still disabled and the joined TX FIFO is empty, so the pushes cannot
	// block in practice; the timeout path still unwinds fully.
	if err := putBlocking(d.syncSM, cfg.Geometry.csyncSeed()); err != nil {
		d.releaseAll()
		return nil, err
	}
	if err := putBlocking(d.colorSM, cfg.Geometry.rgbSeed()); err != nil {
		d.releaseAll()
		return nil, err
	}
	d.enableInSync()

	// The reload channel is the only engine software ever starts. Its
	// first pass configures and triggers the data channel from ring[0];
	// the arm channel likewise only ever runs as a chain target.
	startChannels(1 << d.reload.channel)
	return d, nil
}

func (d *Device) initStateMachines(cfg Config) error {
	Pio := d.syncSM.PIO()
	whole, frac, err := pio.ClkDivFromFrequency(csyncFrequency, machine.CPUFrequency())
	if err != nil {
		return err
	}

	pinCfg := machine.PinConfig{Mode: Pio.PinMode()}
	cfg.CSync.Configure(pinCfg)
	for p := cfg.RGBBase; p < cfg.RGBBase+3; p++ {
		p.Configure(pinCfg)
	}
	// Sync idles high; color pins idle black.
	d.syncSM.SetPinsConsecutive(cfg.CSync, 1, true)
	d.syncSM.SetPindirsConsecutive(cfg.CSync, 1, true)
	d.colorSM.SetPinsConsecutive(cfg.RGBBase, 3, false)
	d.colorSM.SetPindirsConsecutive(cfg.RGBBase, 3, true)

	syncCfg := pio.DefaultStateMachineConfig()
	syncCfg.SetWrap(d.csyncOffset+csyncWrapTarget, d.csyncOffset+csyncWrap)
	syncCfg.SetSidesetParams(1, false, false)
	syncCfg.SetSidesetPins(cfg.CSync)
	syncCfg.SetClkDivIntFrac(whole, frac)
	d.syncSM.Init(d.csyncOffset, syncCfg)

	// rgb runs at full system clock; its per-pixel budget is taken in
	// instruction delays (rgbCyclesPerPixel).
	colorCfg := pio.DefaultStateMachineConfig()
	colorCfg.SetWrap(d.rgbOffset+rgbWrapTarget, d.rgbOffset+rgbWrap)
	colorCfg.SetOutPins(cfg.RGBBase, 3)
	colorCfg.SetSetPins(cfg.RGBBase, 3)
	// Shift right with autopull at 8 bits: the low nibble (even pixel)
	// of each framebuffer byte leaves first.
	colorCfg.SetOutShift(true, true, 8)
	colorCfg.SetFIFOJoin(pio.FifoJoinTx)
	d.colorSM.Init(d.rgbOffset, colorCfg)
	return nil
}

// initChain claims the three DMA channels and builds the descriptor ring
// plus the two static engine configurations. Nothing is triggered here.
func (d *Device) initChain(g Geometry) error {
	var ok bool
	if d.data, ok = _DMA.ClaimChannel(); !ok {
		return errDMAUnavail
	}
	if d.reload, ok = _DMA.ClaimChannel(); !ok {
		d.data.Unclaim()
		return errDMAUnavail
	}
	if d.arm, ok = _DMA.ClaimChannel(); !ok {
		d.reload.Unclaim()
		d.data.Unclaim()
		return errDMAUnavail
	}

	txFIFO := uint32(uintptr(unsafe.Pointer(&d.colorSM.TxReg().Reg)))
	segments := scanSegments(g)
	for i, seg := range segments {
		cc := getDefaultDMAConfig(d.data.channel)
		cc.setTransferDataSize(dmaTxSize8)
		cc.setTREQ_SEL(dmaPIO_TxDREQ(d.colorSM))
		cc.setWriteIncrement(false)
		cc.setReadIncrement(!seg.border)
		cc.setIRQQuiet(true)
		if seg.last {
			cc.setChainTo(uint32(d.arm.channel))
		} else {
			cc.setChainTo(uint32(d.reload.channel))
		}
		readAddr := uint32(uintptr(unsafe.Pointer(&d.borderPx)))
		if !seg.border {
			readAddr = uint32(uintptr(unsafe.Pointer(&d.fb.pix[0])))
		}
		d.ring[i] = dmaDescriptor{
			ctrl:       cc.CTRL,
			writeAddr:  txFIFO,
			transCount: seg.count,
			readAddr:   readAddr,
		}
	}
	d.ringAddr = uint32(uintptr(unsafe.Pointer(&d.ring[0])))

	// Reload channel: copies one descriptor per trigger from the ring
	// onto the data channel's AL3 block. The write address wraps on the
	// 16-byte alias block while the read address walks the ring, so
	// consecutive triggers deliver ring[0], ring[1], ring[2] without any
	// software bookkeeping. TRANS_COUNT self-reloads on every trigger.
	rcc := getDefaultDMAConfig(d.reload.channel)
	rcc.setTransferDataSize(dmaTxSize32)
	rcc.setReadIncrement(true)
	rcc.setWriteIncrement(true)
	rcc.setRing(true, 4) // wrap writes on 1<<4 = 16 bytes.
	rcc.setIRQQuiet(true)
	d.reload.hw.READ_ADDR.Set(d.ringAddr)
	d.reload.hw.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(d.data.aliasHW()))))
	d.reload.hw.TRANS_COUNT.Set(descriptorWords)
	d.reload.hw.AL1_CTRL.Set(rcc.CTRL) // non-trigger CTRL alias

	// Arm channel: one word, rewrites the reload channel's read address
	// back to ring[0] through its trigger alias. Chained to by the last
	// ring descriptor, this closes the loop for the next frame.
	acc := getDefaultDMAConfig(d.arm.channel)
	acc.setTransferDataSize(dmaTxSize32)
	acc.setReadIncrement(false)
	acc.setWriteIncrement(false)
	acc.setIRQQuiet(true)
	d.arm.hw.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(&d.ringAddr))))
	d.arm.hw.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(&d.reload.hw.AL3_READ_ADDR_TRIG))))
	d.arm.hw.TRANS_COUNT.Set(1)
	d.arm.hw.AL1_CTRL.Set(acc.CTRL)
	return nil
}

// enableInSync starts both state machines with one CTRL write that also
// restarts their clock dividers, so neither runs ahead of the other by a
// single tick. A one-tick skew would show as a permanently shifted image.
func (d *Device) enableInSync() {
	mask := uint32(1<<d.syncSM.StateMachineIndex() | 1<<d.colorSM.StateMachineIndex())
	d.syncSM.PIO().HW().CTRL.SetBits(
		mask<<rp.PIO0_CTRL_CLKDIV_RESTART_Pos | mask<<rp.PIO0_CTRL_SM_ENABLE_Pos)
}

func (d *Device) releasePrograms() {
	Pio := d.syncSM.PIO()
	Pio.ClearProgramSection(d.csyncOffset, uint8(len(csyncInstructions)))
	Pio.ClearProgramSection(d.rgbOffset, uint8(len(rgbInstructions)))
}

// releaseAll unwinds everything New acquired after initChain succeeded:
// the three DMA channels and both loaded programs.
func (d *Device) releaseAll() {
	d.arm.Unclaim()
	d.reload.Unclaim()
	d.data.Unclaim()
	d.releasePrograms()
}

func putBlocking(sm pio.StateMachine, v uint32) error {
	retries := timeoutRetries
	for sm.IsTxFIFOFull() {
		if retries == 0 {
			return errTimeout
		}
		gosched()
		retries--
	}
	sm.TxPut(v)
	return nil
}

// Framebuffer returns the live pixel store the chain scans out.
func (d *Device) Framebuffer() *Framebuffer { return d.fb }

// DrawPixel ORs a color into the framebuffer; see Framebuffer.DrawPixel
// for the clamping and accumulation contract.
func (d *Device) DrawPixel(x, y int, c Color) { d.fb.DrawPixel(x, y, c) }

// ReplacePixel overwrites a pixel; see Framebuffer.ReplacePixel.
func (d *Device) ReplacePixel(x, y int, c Color) { d.fb.ReplacePixel(x, y, c) }
