//go:build rp2040

package scart

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

type dmaChannel struct {
	hw      *dmaChannelHW
	channel uint8
}

// Single DMA channel register block, including the three alias views. The
// aliases reorder the four live registers so that a different one carries
// the trigger; the reload channel writes whole descriptors through the AL3
// view, where READ_ADDR comes last and starts the transfer. See rp.DMA_Type.
type dmaChannelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32

	AL1_CTRL             volatile.Register32
	AL1_READ_ADDR        volatile.Register32
	AL1_WRITE_ADDR       volatile.Register32
	AL1_TRANS_COUNT_TRIG volatile.Register32

	AL2_CTRL            volatile.Register32
	AL2_TRANS_COUNT     volatile.Register32
	AL2_READ_ADDR       volatile.Register32
	AL2_WRITE_ADDR_TRIG volatile.Register32

	AL3_CTRL            volatile.Register32
	AL3_WRITE_ADDR      volatile.Register32
	AL3_TRANS_COUNT     volatile.Register32
	AL3_READ_ADDR_TRIG  volatile.Register32
}

// dmaDescriptor is one transfer ring entry, laid out in AL3 register order
// so the reload channel can copy it straight onto a channel's AL3 block.
// One descriptor is 16 bytes, the reload channel's write-ring span.
type dmaDescriptor struct {
	ctrl       uint32
	writeAddr  uint32
	transCount uint32
	readAddr   uint32
}

// DMA channels usable on the RP2040.
var dmaChannels = (*[12]dmaChannelHW)(unsafe.Pointer(rp.DMA))

// dmaPool hands out unclaimed DMA channels. Claiming is a simple bitmask
// like the PIO state machine claim; there is no locking, claim channels
// from one goroutine during bring-up.
type dmaPool struct {
	claimedMask uint16
}

var _DMA = &dmaPool{}

func (p *dmaPool) ClaimChannel() (ch dmaChannel, ok bool) {
	for i := uint8(0); i < uint8(len(dmaChannels)); i++ {
		if p.claimedMask&(1<<i) == 0 {
			p.claimedMask |= 1 << i
			return dmaChannel{hw: &dmaChannels[i], channel: i}, true
		}
	}
	return dmaChannel{}, false
}

func (ch dmaChannel) IsValid() bool { return ch.hw != nil }

func (ch dmaChannel) Unclaim() {
	_DMA.claimedMask &^= 1 << ch.channel
}

// aliasHW returns the address of the channel's AL3 register block, the
// write target for descriptor reloads. The block is naturally 16-byte
// aligned, which is what lets the reload channel's write ring wrap on it.
func (ch dmaChannel) aliasHW() *volatile.Register32 {
	return &ch.hw.AL3_CTRL
}

// startChannels triggers every channel in mask with a single write, so
// chained setups start from exactly one software action.
func startChannels(mask uint32) {
	rp.DMA.MULTI_CHAN_TRIGGER.Set(mask)
}

// dmaPIO_TxDREQ returns the DREQ index pacing transfers into a PIO state
// machine's TX FIFO.
func dmaPIO_TxDREQ(sm pio.StateMachine) uint32 {
	return uint32(sm.PIO().BlockIndex())*8 + uint32(sm.StateMachineIndex())
}

type dmaTxSize uint32

const (
	dmaTxSize8 dmaTxSize = iota
	dmaTxSize16
	dmaTxSize32
)

type dmaChannelConfig struct {
	CTRL uint32
}

func getDefaultDMAConfig(channel uint8) (cc dmaChannelConfig) {
	cc.setRing(false, 0)
	cc.setBSwap(false)
	cc.setIRQQuiet(false)
	cc.setWriteIncrement(false)
	cc.setSniffEnable(false)
	cc.setHighPriority(false)

	cc.setChainTo(uint32(channel))
	cc.setTREQ_SEL(rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_PERMANENT)
	cc.setReadIncrement(true)
	cc.setTransferDataSize(dmaTxSize32)
	cc.setEnable(true)
	return cc
}

// Select a Transfer Request signal. The channel uses the transfer request
// signal to pace its data transfer rate. 0x0 to 0x3a -> select DREQ n as TREQ.
func (cc *dmaChannelConfig) setTREQ_SEL(dreq uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Msk)) | (dreq << rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)
}

func (cc *dmaChannelConfig) setChainTo(chainTo uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Msk)) | (chainTo << rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos)
}

func (cc *dmaChannelConfig) setTransferDataSize(size dmaTxSize) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Msk)) | (uint32(size) << rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos)
}

// setRing wraps the read address (write=false) or write address (write=true)
// on a (1<<sizeBits)-byte boundary. sizeBits=0 disables wrapping.
func (cc *dmaChannelConfig) setRing(write bool, sizeBits uint32) {
	cc.CTRL = (cc.CTRL & ^uint32(rp.DMA_CH0_CTRL_TRIG_RING_SIZE_Msk)) |
		(sizeBits << rp.DMA_CH0_CTRL_TRIG_RING_SIZE_Pos)
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_RING_SEL_Pos, write)
}

func (cc *dmaChannelConfig) setReadIncrement(incr bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_INCR_READ_Pos, incr)
}

func (cc *dmaChannelConfig) setWriteIncrement(incr bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_INCR_WRITE_Pos, incr)
}

func (cc *dmaChannelConfig) setBSwap(bswap bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_BSWAP_Pos, bswap)
}

func (cc *dmaChannelConfig) setIRQQuiet(irqQuiet bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_IRQ_QUIET_Pos, irqQuiet)
}

func (cc *dmaChannelConfig) setHighPriority(highPriority bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_HIGH_PRIORITY_Pos, highPriority)
}

func (cc *dmaChannelConfig) setEnable(enable bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_EN_Pos, enable)
}

func (cc *dmaChannelConfig) setSniffEnable(sniffEnable bool) {
	setBitPos(&cc.CTRL, rp.DMA_CH0_CTRL_TRIG_SNIFF_EN_Pos, sniffEnable)
}

func setBitPos(cc *uint32, pos uint32, bit bool) {
	if bit {
		*cc = *cc | (1 << pos)
	} else {
		*cc = *cc & ^(1 << pos) // unset bit.
	}
}
