package cpu

// armSingleDataTransfer implements LDR/STR (and the B-bit byte variants),
// covering immediate and register-shifted offsets, pre/post-indexing and
// writeback (§4.1 LDR/STR variants).
func (c *CPU) armSingleDataTransfer(op uint32) int {
	immediate := op&0x02000000 == 0
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	byteAccess := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F

	var offset uint32
	if immediate {
		offset = op & 0xFFF
	} else {
		shiftType := (op >> 5) & 0x03
		amount := (op >> 7) & 0x1F
		rm := c.R(op & 0x0F)
		offset, _ = applyShift(shiftType, rm, amount, false, c.GetFlag(FlagC))
	}

	base := c.R(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	cycles := 3 // base internal sequencing cost; memory access cost added below
	if load {
		var value uint32
		var mc int
		if byteAccess {
			var v uint8
			v, mc = c.bus.Read8(addr)
			value = uint32(v)
		} else {
			value, mc = readRotatedWord(c.bus, addr)
		}
		cycles += mc
		if rd == 15 {
			c.SetPC(value &^ 3)
		} else {
			c.SetR(rd, value)
		}
	} else {
		value := c.R(rd)
		if rd == 15 {
			value = c.pcRead()
		}
		if byteAccess {
			cycles += c.bus.Write8(addr, uint8(value))
		} else {
			cycles += c.bus.Write32(addr&^3, value)
		}
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.SetR(rn, addr)
	} else if writeback {
		c.SetR(rn, addr)
	}
	return cycles
}

// readRotatedWord implements LDR's documented misaligned-read behavior:
// the access is forced word-aligned, then the fetched word is rotated
// right by 8 times the original byte offset within the word.
func readRotatedWord(bus Bus, addr uint32) (uint32, int) {
	aligned := addr &^ 3
	word, cycles := bus.Read32(aligned)
	rot := (addr & 3) * 8
	if rot == 0 {
		return word, cycles
	}
	return word>>rot | word<<(32-rot), cycles
}

// armHalfwordTransfer implements LDRH/STRH/LDRSB/LDRSH, the "Ss/Hh" bit
// group entered from halfword-signed-transfer-space (§4.1).
func (c *CPU) armHalfwordTransfer(op uint32) int {
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	immediateOffset := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F
	sh := (op >> 5) & 0x03 // 01=halfword, 10=signed byte, 11=signed halfword

	var offset uint32
	if immediateOffset {
		offset = (op>>4)&0xF0 | op&0x0F
	} else {
		offset = c.R(op & 0x0F)
	}

	base := c.R(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	cycles := 3
	if load {
		var value uint32
		var mc int
		switch sh {
		case 0x01: // halfword: misaligned access rotates the zero-extended
			// 32-bit value right by 8, matching LDR's word-rotate trick
			value, mc = readRotatedHalfWord(c.bus, addr)
		case 0x02: // signed byte
			var v uint8
			v, mc = c.bus.Read8(addr)
			value = uint32(int32(int8(v)))
		default: // signed halfword
			h, rc := c.bus.Read16(addr &^ 1)
			value = uint32(int32(int16(h)))
			mc = rc
		}
		cycles += mc
		c.SetR(rd, value)
	} else {
		cycles += c.bus.Write16(addr&^1, uint16(c.R(rd)))
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.SetR(rn, addr)
	} else if writeback {
		c.SetR(rn, addr)
	}
	return cycles
}

// readRotatedHalfWord implements the misaligned-LDRH behavior named in
// §8's worked example: the halfword is read at the aligned-down address,
// zero-extended to 32 bits, then rotated right by 8 if the original
// address was odd.
func readRotatedHalfWord(bus Bus, addr uint32) (uint32, int) {
	aligned := addr &^ 1
	h, cycles := bus.Read16(aligned)
	value := uint32(h)
	if addr&1 == 0 {
		return value, cycles
	}
	return value>>8 | value<<24, cycles
}

// armBlockDataTransfer implements LDM/STM across its four addressing
// modes (IA/IB/DA/DB) plus the S-bit user-bank/PC-restore behavior
// (§4.1 LDM/STM with 4 addressing modes + S-bit).
func (c *CPU) armBlockDataTransfer(op uint32) int {
	pre := op&0x01000000 != 0
	up := op&0x00800000 != 0
	psrBit := op&0x00400000 != 0
	writeback := op&0x00200000 != 0
	load := op&0x00100000 != 0
	rn := (op >> 16) & 0x0F
	list := op & 0xFFFF

	count := 0
	lowest := -1
	for i := 0; i < 16; i++ {
		if list&(1<<i) != 0 {
			count++
			if lowest == -1 {
				lowest = i
			}
		}
	}

	base := c.R(rn)
	addr := base
	if !up {
		addr -= uint32(count) * 4
		if !pre {
			addr += 4
		}
	} else if pre {
		addr += 4
	}

	// finalBase is the value rn ends up holding after this instruction's
	// writeback, needed below for STM's "base in list, not lowest-numbered"
	// case (§4.1 LDM/STM: a non-lowest base register stores its
	// post-writeback value, not its original one).
	var finalBase uint32
	if up {
		finalBase = base + uint32(count)*4
	} else {
		finalBase = base - uint32(count)*4
	}

	// With the S bit set and r15 not loaded, the listed registers are those
	// of the User-mode bank rather than the current mode's.
	userBank := psrBit && !(load && list&(1<<15) != 0)

	cycles := 1 // internal cycle for address calculation
	restoreCPSR := false
	for i := 0; i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if load {
			value, mc := c.bus.Read32(addr)
			cycles += mc
			if i == 15 {
				c.SetPC(value &^ 3)
				if psrBit && c.HasSPSR() {
					restoreCPSR = true
				}
			} else if userBank {
				c.slots[physIndex[ModeUSR][i]] = value
			} else {
				c.SetR(uint32(i), value)
			}
		} else {
			var value uint32
			switch {
			case i == 15:
				value = c.pcRead()
			case uint32(i) == rn && i != lowest && writeback:
				value = finalBase
			case userBank:
				value = c.slots[physIndex[ModeUSR][i]]
			default:
				value = c.R(uint32(i))
			}
			cycles += c.bus.Write32(addr, value)
		}
		addr += 4
	}

	if count == 0 { // empty register list: r15 transferred, base += 0x40
		if load {
			value, mc := c.bus.Read32(addr)
			cycles += mc
			c.SetPC(value &^ 3)
		} else {
			cycles += c.bus.Write32(addr, c.pcRead())
		}
		if up {
			addr = base + 0x40
		} else {
			addr = base - 0x40
		}
	}

	if restoreCPSR {
		c.SetCPSR(c.SPSR())
	}
	if writeback && (list&(1<<rn) == 0 || !load) {
		if count == 0 {
			c.SetR(rn, addr)
		} else {
			c.SetR(rn, finalBase)
		}
	}
	return cycles
}
