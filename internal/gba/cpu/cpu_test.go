package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBus struct {
	mem map[uint32][]byte
}

func newTestBus() *testBus { return &testBus{mem: map[uint32][]byte{}} }

func (b *testBus) ensure(addr uint32) {
	page := addr &^ 0xFFF
	if _, ok := b.mem[page]; !ok {
		b.mem[page] = make([]byte, 0x1000)
	}
}

func (b *testBus) readByte(addr uint32) uint8 {
	b.ensure(addr)
	return b.mem[addr&^0xFFF][addr&0xFFF]
}
func (b *testBus) writeByte(addr uint32, v uint8) {
	b.ensure(addr)
	b.mem[addr&^0xFFF][addr&0xFFF] = v
}

func (b *testBus) Read8(addr uint32) (uint8, int) { return b.readByte(addr), 1 }
func (b *testBus) Write8(addr uint32, v uint8) int {
	b.writeByte(addr, v)
	return 1
}
func (b *testBus) Read16(addr uint32) (uint16, int) {
	return uint16(b.readByte(addr)) | uint16(b.readByte(addr+1))<<8, 1
}
func (b *testBus) Write16(addr uint32, v uint16) int {
	b.writeByte(addr, uint8(v))
	b.writeByte(addr+1, uint8(v>>8))
	return 1
}
func (b *testBus) Read32(addr uint32) (uint32, int) {
	lo, _ := b.Read16(addr)
	hi, _ := b.Read16(addr + 2)
	return uint32(lo) | uint32(hi)<<16, 1
}
func (b *testBus) Write32(addr uint32, v uint32) int {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
	return 1
}

type noIRQ struct{}

func (noIRQ) IRQPending() bool { return false }

func newTestCPU() (*CPU, *testBus) {
	bus := newTestBus()
	c := New(bus, noIRQ{})
	c.Reset()
	c.SetCPSR(ModeSYS)
	c.SetPC(0x03000000)
	return c, bus
}

// MOVS R0,#0 writes zero to R0 and sets the Z flag.
func TestARMMOVSetsFlags(t *testing.T) {
	c, bus := newTestCPU()
	// MOVS R0, #0 (cond=AL, op=MOV, S=1, Rd=0, imm=0)
	instr := uint32(0xE3B00000)
	bus.Write32(c.PC(), instr)
	c.Step()
	assert.Equal(t, uint32(0), c.R(0))
	assert.True(t, c.GetFlag(FlagZ))
}

// Thumb POP {PC}: SP=0x03000100 holds 0x08001000; CPSR.T stays set
// (ARMv4T does not clear Thumb state on a PC pop), PC lands on the even
// target, SP advances by 4.
func TestThumbPopToPCPreservesThumbState(t *testing.T) {
	c, bus := newTestCPU()
	c.SetFlag(FlagT, true)
	c.SetR(13, 0x03000100)
	bus.Write32(0x03000100, 0x08001000)
	c.SetPC(0x03000200)
	bus.Write16(0x03000200, 0xBD00) // POP {PC}
	c.Step()
	assert.True(t, c.GetFlag(FlagT))
	assert.Equal(t, uint32(0x08001000), c.PC())
	assert.Equal(t, uint32(0x03000104), c.R(13))
}

// LDRH from an odd address: IWRAM[0x100]=0xAB, [0x101]=0xCD; a misaligned
// halfword load reads the halfword at the aligned-down address, zero-extends
// it to 32 bits, then rotates the word right by 8 (§8 scenario 3).
func TestLDRHMisalignedRotates(t *testing.T) {
	c, bus := newTestCPU()
	bus.Write8(0x03000100, 0xAB)
	bus.Write8(0x03000101, 0xCD)
	c.SetR(0, 0x03000101)
	// LDRH R1, [R0] encoded as immediate-offset halfword load, offset 0.
	instr := uint32(0xE1D010B0) // cond=AL, P=1,U=1,I=1,W=0,L=1, Rn=0, Rd=1, SH=01
	bus.Write32(c.PC(), instr)
	c.Step()
	assert.Equal(t, uint32(0xAB0000CD), c.R(1))
}

// BL is staged across two Thumb halfwords: the first loads LR with a
// PC-relative high offset, the second computes the branch target from LR
// and leaves LR holding the return address with bit0 set.
func TestThumbBranchLinkTwoInstructionForm(t *testing.T) {
	c, bus := newTestCPU()
	c.SetFlag(FlagT, true)
	c.SetPC(0x03000000)
	bus.Write16(0x03000000, 0xF000) // BL first half, offset11=0
	bus.Write16(0x03000002, 0xF800) // BL second half, offset11=0
	c.Step()
	// LR = pcRead() of the first half (instrAddr+4, no double-advance).
	assert.Equal(t, uint32(0x03000004), c.R(14))
	c.Step()
	assert.Equal(t, uint32(0x03000004), c.PC())
	assert.Equal(t, uint32(0x03000005), c.R(14))
}

// STM Rn!, {} with an empty register list is a documented edge case: R15
// is transferred in its place and the base register moves by 0x40 instead
// of by the (zero) register count.
func TestEmptyLDMSTMTransfersR15AndBumpsBaseBy0x40(t *testing.T) {
	c, bus := newTestCPU()
	c.SetR(0, 0x03000000)
	c.SetPC(0x03000008)
	// STM R0!, {} empty list: cond=AL, P=0,U=1,S=0,W=1,L=0, Rn=0, list=0
	instr := uint32(0xE8A00000)
	bus.Write32(c.PC(), instr)
	c.Step()
	assert.Equal(t, uint32(0x03000040), c.R(0))
	// r15 is written as pcRead() of the STM instruction itself (instrAddr+8).
	stored, _ := bus.Read32(0x03000000)
	assert.Equal(t, uint32(0x03000010), stored)
}
