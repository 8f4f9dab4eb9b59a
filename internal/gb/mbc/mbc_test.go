package mbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

func TestNoneROMOffsetIsIdentity(t *testing.T) {
	n := NewNone(makeROM(2), 0)
	assert.Equal(t, 0x1234, n.ROMOffset(0x1234))
}

func TestNoneRAMAbsentReadsFF(t *testing.T) {
	n := NewNone(makeROM(1), 0)
	assert.Equal(t, uint8(0xFF), n.ReadRAM(0xA000))
}

func TestMBC1Bank0CoercedTo1(t *testing.T) {
	m := NewMBC1(makeROM(4), 0)
	m.WriteROM(0x2000, 0x00)
	off := m.ROMOffset(0x4000)
	assert.Equal(t, byte(1), m.rom[off])
}

func TestMBC1ModeLatchAffectsLowBank(t *testing.T) {
	m := NewMBC1(makeROM(128), 0x8000)
	m.WriteROM(0x2000, 0x05)
	m.WriteROM(0x4000, 0x01) // bank2 = 1 -> bank 0x20 in mode 0 combined into high region only
	m.WriteROM(0x6000, 0x01) // mode = RAM banking mode
	off := m.ROMOffset(0x0000)
	assert.Equal(t, byte(0x20), m.rom[off])
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	m := NewMBC1(makeROM(2), 0x2000)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadRAM(0xA000))
}

func TestMBC2RAMMasksToNibble(t *testing.T) {
	m := NewMBC2(makeROM(2))
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0xFF)
	assert.Equal(t, uint8(0x0F)|0xF0, m.ReadRAM(0xA000))
}

func TestMBC2BankSelectByAddressBit8(t *testing.T) {
	m := NewMBC2(makeROM(4))
	m.WriteROM(0x0100, 0x03) // bit 8 set -> bank select
	off := m.ROMOffset(0x4000)
	assert.Equal(t, byte(3), m.rom[off])
}

func TestMBC3RTCSelectStubbedRead(t *testing.T) {
	m := NewMBC3(makeROM(2), 0x2000)
	m.WriteROM(0x0000, 0x0A)
	m.WriteROM(0x4000, 0x08) // select RTC seconds register
	assert.Equal(t, uint8(0), m.ReadRAM(0xA000))
}

func TestMBC3Bank0CoercedTo1(t *testing.T) {
	m := NewMBC3(makeROM(4), 0)
	m.WriteROM(0x2000, 0x00)
	off := m.ROMOffset(0x4000)
	assert.Equal(t, byte(1), m.rom[off])
}

func TestMBC5Bank0NotCoerced(t *testing.T) {
	m := NewMBC5(makeROM(4), 0)
	m.WriteROM(0x2000, 0x00)
	off := m.ROMOffset(0x4000)
	assert.Equal(t, byte(0), m.rom[off])
}

func TestMBC5NineBitBank(t *testing.T) {
	m := NewMBC5(makeROM(600), 0)
	m.WriteROM(0x2000, 0xFF)
	m.WriteROM(0x3000, 0x01)
	off := m.ROMOffset(0x4000)
	assert.Equal(t, byte(0xFF), m.rom[off])
}
