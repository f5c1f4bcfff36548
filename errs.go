package scart

import (
	"errors"
	"math"
	"runtime"
)

const timeoutRetries = math.MaxUint16 * 8

var (
	errTimeout       = errors.New("scart: timeout")
	errDMAUnavail    = errors.New("scart: DMA channel unavailable")
	errBadBorder     = errors.New("scart: border color out of range")
	errPinRange      = errors.New("scart: color pins must fit in GPIO0..29")
	errSameSM        = errors.New("scart: sync and color need distinct state machines")
	errDifferentPIOs = errors.New("scart: sync and color must share one PIO block")
)

func gosched() {
	runtime.Gosched()
}
