package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubIRQ struct{ bits []uint8 }

func (s *stubIRQ) RequestInterrupt(bit uint8) { s.bits = append(s.bits, bit) }

func TestTIMAIncrementsOnSelectedDivBit(t *testing.T) {
	tm := New()
	irq := &stubIRQ{}
	tm.IRQ = irq
	tm.WriteIO(0xFF07, 0x05) // enabled, clock select 01 -> bit 3
	tm.Tick(1 << 4)
	assert.NotZero(t, tm.ReadIO(0xFF05))
}

func TestTIMAOverflowReloadsFromTMAAndRequestsIRQ(t *testing.T) {
	tm := New()
	irq := &stubIRQ{}
	tm.IRQ = irq
	tm.WriteIO(0xFF06, 0x10)
	tm.WriteIO(0xFF07, 0x05)
	tm.WriteIO(0xFF05, 0xFF)
	tm.Tick(1 << 4)
	assert.Equal(t, uint8(0x10), tm.ReadIO(0xFF05))
	assert.Contains(t, irq.bits, uint8(2))
}

func TestDIVWriteResetsCounter(t *testing.T) {
	tm := New()
	tm.Tick(1000)
	tm.WriteIO(0xFF04, 0xFF) // any write resets DIV regardless of value
	assert.Equal(t, uint8(0), tm.ReadIO(0xFF04))
}

func TestTACDisabledStopsTIMA(t *testing.T) {
	tm := New()
	tm.Tick(1 << 16)
	assert.Equal(t, uint8(0), tm.ReadIO(0xFF05))
}
