package cpu

// executeThumb decodes and runs one Thumb-state instruction, dispatching
// on the high bits of the 16-bit opcode into the 19 Thumb formats named
// in §4.1.
func (c *CPU) executeThumb(op uint16) int {
	switch {
	case op&0xF800 == 0x1800: // format 2: add/sub register or immediate
		return c.thumbAddSub(op)
	case op&0xE000 == 0x0000: // format 1: move shifted register
		return c.thumbShift(op)
	case op&0xE000 == 0x2000: // format 3: move/compare/add/subtract immediate
		return c.thumbImmediate(op)
	case op&0xFC00 == 0x4000: // format 4: ALU operations
		return c.thumbALU(op)
	case op&0xFC00 == 0x4400: // format 5: hi register ops / BX
		return c.thumbHiRegBX(op)
	case op&0xF800 == 0x4800: // format 6: PC-relative load
		return c.thumbPCRelLoad(op)
	case op&0xF000 == 0x5000: // format 7/8: load/store with register offset
		return c.thumbRegOffset(op)
	case op&0xE000 == 0x6000: // format 9: load/store with immediate offset (word/byte)
		return c.thumbImmOffset(op)
	case op&0xF000 == 0x8000: // format 10: load/store halfword
		return c.thumbHalfword(op)
	case op&0xF000 == 0x9000: // format 11: SP-relative load/store
		return c.thumbSPRelative(op)
	case op&0xF000 == 0xA000: // format 12: load address
		return c.thumbLoadAddress(op)
	case op&0xFF00 == 0xB000: // format 13: add offset to SP
		return c.thumbAddSPOffset(op)
	case op&0xF600 == 0xB400: // format 14: push/pop
		return c.thumbPushPop(op)
	case op&0xF000 == 0xC000: // format 15: multiple load/store
		return c.thumbMultipleTransfer(op)
	case op&0xFF00 == 0xDF00: // format 17: software interrupt
		return c.enterException(ModeSVC, vectorSWI, 2, c.PC()+2)
	case op&0xF000 == 0xD000: // format 16: conditional branch
		return c.thumbConditionalBranch(op)
	case op&0xF800 == 0xE000: // format 18: unconditional branch
		return c.thumbBranch(op)
	case op&0xF000 == 0xF000: // format 19: long branch with link
		return c.thumbBranchLink(op)
	default:
		return c.enterException(ModeUND, vectorUndefined, 2, c.PC()+2)
	}
}

func (c *CPU) thumbShift(op uint16) int {
	shiftType := uint32(op>>11) & 0x03
	amount := uint32(op>>6) & 0x1F
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	value, carry := applyShift(shiftType, c.R(rs), amount, false, c.GetFlag(FlagC))
	c.SetR(rd, value)
	c.setLogicFlags(value, carry)
	return 1
}

func (c *CPU) thumbAddSub(op uint16) int {
	immediate := op&0x0400 != 0
	subtract := op&0x0200 != 0
	rn := uint32(op>>6) & 0x07
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07

	var operand uint32
	if immediate {
		operand = rn
	} else {
		operand = c.R(rn)
	}
	a := c.R(rs)
	var result uint32
	if subtract {
		result = c.armSub(a, operand, true)
	} else {
		result = c.armAdd(a, operand, true)
	}
	c.SetR(rd, result)
	return 1
}

func (c *CPU) thumbImmediate(op uint16) int {
	opKind := (op >> 11) & 0x03
	rd := uint32(op>>8) & 0x07
	imm := uint32(op) & 0xFF
	switch opKind {
	case 0: // MOV
		c.SetR(rd, imm)
		c.setLogicFlags(imm, c.GetFlag(FlagC))
	case 1: // CMP
		c.armSub(c.R(rd), imm, true)
	case 2: // ADD
		c.SetR(rd, c.armAdd(c.R(rd), imm, true))
	default: // SUB
		c.SetR(rd, c.armSub(c.R(rd), imm, true))
	}
	return 1
}

func (c *CPU) setLogicFlags(result uint32, carry bool) {
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagN, result&0x80000000 != 0)
	c.SetFlag(FlagC, carry)
}

func (c *CPU) thumbALU(op uint16) int {
	opKind := (op >> 6) & 0x0F
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	a := c.R(rd)
	b := c.R(rs)
	switch opKind {
	case 0x0: // AND
		r := a & b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	case 0x1: // EOR
		r := a ^ b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	case 0x2: // LSL
		v, carry := applyShift(0, a, b&0xFF, true, c.GetFlag(FlagC))
		c.SetR(rd, v)
		c.setLogicFlags(v, carry)
	case 0x3: // LSR
		v, carry := applyShift(1, a, b&0xFF, true, c.GetFlag(FlagC))
		c.SetR(rd, v)
		c.setLogicFlags(v, carry)
	case 0x4: // ASR
		v, carry := applyShift(2, a, b&0xFF, true, c.GetFlag(FlagC))
		c.SetR(rd, v)
		c.setLogicFlags(v, carry)
	case 0x5: // ADC
		c.SetR(rd, c.armAdc(a, b, true))
	case 0x6: // SBC
		c.SetR(rd, c.armSbc(a, b, true))
	case 0x7: // ROR
		v, carry := applyShift(3, a, b&0xFF, true, c.GetFlag(FlagC))
		c.SetR(rd, v)
		c.setLogicFlags(v, carry)
	case 0x8: // TST
		c.setLogicFlags(a&b, c.GetFlag(FlagC))
	case 0x9: // NEG
		c.SetR(rd, c.armSub(0, b, true))
	case 0xA: // CMP
		c.armSub(a, b, true)
	case 0xB: // CMN
		c.armAdd(a, b, true)
	case 0xC: // ORR
		r := a | b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	case 0xD: // MUL
		r := a * b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	case 0xE: // BIC
		r := a &^ b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	default: // MVN
		r := ^b
		c.SetR(rd, r)
		c.setLogicFlags(r, c.GetFlag(FlagC))
	}
	return 1
}

func (c *CPU) thumbHiRegBX(op uint16) int {
	opKind := (op >> 8) & 0x03
	h1 := op&0x80 != 0
	h2 := op&0x40 != 0
	rs := uint32(op>>3)&0x07 + boolToReg(h2)
	rd := uint32(op)&0x07 + boolToReg(h1)

	switch opKind {
	case 0: // ADD
		c.SetR(rd, c.R(rd)+c.R(rs))
	case 1: // CMP
		c.armSub(c.R(rd), c.R(rs), true)
	case 2: // MOV
		c.SetR(rd, c.R(rs))
	default: // BX (and BLX in later ARM revisions; not present on ARMv4T)
		target := c.R(rs)
		c.SetFlag(FlagT, target&1 != 0)
		c.SetPC(target &^ 1)
	}
	return 3
}

func boolToReg(b bool) uint32 {
	if b {
		return 8
	}
	return 0
}

func (c *CPU) thumbPCRelLoad(op uint16) int {
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	base := (c.pcRead() &^ 3) + imm
	value, cycles := c.bus.Read32(base)
	c.SetR(rd, value)
	return 3 + cycles
}

func (c *CPU) thumbRegOffset(op uint16) int {
	lBit := op&0x0800 != 0
	bBit := op&0x0400 != 0
	ro := uint32(op>>6) & 0x07
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	addr := c.R(rb) + c.R(ro)
	signExtend := op&0x0200 != 0

	cycles := 0
	switch {
	case !signExtend && !bBit && !lBit: // STR
		cycles = c.bus.Write32(addr&^3, c.R(rd))
	case !signExtend && bBit && !lBit: // STRB
		cycles = c.bus.Write8(addr, uint8(c.R(rd)))
	case !signExtend && !bBit && lBit: // LDR
		var value uint32
		value, cycles = readRotatedWord(c.bus, addr)
		c.SetR(rd, value)
	case !signExtend && bBit && lBit: // LDRB
		var v uint8
		v, cycles = c.bus.Read8(addr)
		c.SetR(rd, uint32(v))
	case signExtend && !bBit && !lBit: // STRH
		cycles = c.bus.Write16(addr&^1, uint16(c.R(rd)))
	case signExtend && bBit && !lBit: // LDSB
		var v uint8
		v, cycles = c.bus.Read8(addr)
		c.SetR(rd, uint32(int32(int8(v))))
	case signExtend && !bBit && lBit: // LDRH
		var value uint32
		value, cycles = readRotatedHalfWord(c.bus, addr)
		c.SetR(rd, value)
	default: // LDSH
		var h uint16
		h, cycles = c.bus.Read16(addr &^ 1)
		c.SetR(rd, uint32(int32(int16(h))))
	}
	return 3 + cycles
}

func (c *CPU) thumbImmOffset(op uint16) int {
	bBit := op&0x1000 != 0
	lBit := op&0x0800 != 0
	imm := uint32(op>>6) & 0x1F
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	if !bBit {
		imm *= 4
	}
	addr := c.R(rb) + imm
	cycles := 0
	switch {
	case lBit && bBit:
		var v uint8
		v, cycles = c.bus.Read8(addr)
		c.SetR(rd, uint32(v))
	case lBit && !bBit:
		var value uint32
		value, cycles = readRotatedWord(c.bus, addr)
		c.SetR(rd, value)
	case !lBit && bBit:
		cycles = c.bus.Write8(addr, uint8(c.R(rd)))
	default:
		cycles = c.bus.Write32(addr&^3, c.R(rd))
	}
	return 3 + cycles
}

func (c *CPU) thumbHalfword(op uint16) int {
	lBit := op&0x0800 != 0
	imm := uint32(op>>6) & 0x1F * 2
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	addr := c.R(rb) + imm
	var cycles int
	if lBit {
		var value uint32
		value, cycles = readRotatedHalfWord(c.bus, addr)
		c.SetR(rd, value)
	} else {
		cycles = c.bus.Write16(addr&^1, uint16(c.R(rd)))
	}
	return 3 + cycles
}

func (c *CPU) thumbSPRelative(op uint16) int {
	lBit := op&0x0800 != 0
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	addr := c.R(13) + imm
	var cycles int
	if lBit {
		var value uint32
		value, cycles = readRotatedWord(c.bus, addr)
		c.SetR(rd, value)
	} else {
		cycles = c.bus.Write32(addr&^3, c.R(rd))
	}
	return 3 + cycles
}

func (c *CPU) thumbLoadAddress(op uint16) int {
	spBase := op&0x0800 != 0
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	if spBase {
		c.SetR(rd, c.R(13)+imm)
	} else {
		c.SetR(rd, (c.pcRead()&^3)+imm)
	}
	return 1
}

func (c *CPU) thumbAddSPOffset(op uint16) int {
	negative := op&0x80 != 0
	imm := uint32(op&0x7F) * 4
	if negative {
		c.SetR(13, c.R(13)-imm)
	} else {
		c.SetR(13, c.R(13)+imm)
	}
	return 1
}

func (c *CPU) thumbPushPop(op uint16) int {
	pop := op&0x0800 != 0
	includeExtra := op&0x0100 != 0 // PC for POP, LR for PUSH
	list := uint8(op & 0xFF)

	cycles := 1
	if pop {
		sp := c.R(13)
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				value, mc := c.bus.Read32(sp)
				cycles += mc
				c.SetR(uint32(i), value)
				sp += 4
			}
		}
		if includeExtra {
			// ARMv4T: POP {PC} loads PC but does not change Thumb state.
			value, mc := c.bus.Read32(sp)
			cycles += mc
			c.SetPC(value &^ 1)
			sp += 4
		}
		c.SetR(13, sp)
	} else {
		sp := c.R(13)
		count := bitCount8(list)
		if includeExtra {
			count++
		}
		sp -= uint32(count) * 4
		c.SetR(13, sp)
		addr := sp
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				cycles += c.bus.Write32(addr, c.R(uint32(i)))
				addr += 4
			}
		}
		if includeExtra {
			cycles += c.bus.Write32(addr, c.R(14))
		}
	}
	return cycles
}

func bitCount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func (c *CPU) thumbMultipleTransfer(op uint16) int {
	load := op&0x0800 != 0
	rb := uint32(op>>8) & 0x07
	list := uint8(op & 0xFF)
	addr := c.R(rb)
	count := 0
	cycles := 2
	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		count++
		if load {
			value, mc := c.bus.Read32(addr)
			cycles += mc
			c.SetR(uint32(i), value)
		} else {
			cycles += c.bus.Write32(addr, c.R(uint32(i)))
		}
		addr += 4
	}
	c.SetR(rb, addr)
	return cycles
}

func (c *CPU) thumbConditionalBranch(op uint16) int {
	cond := Condition((op >> 8) & 0x0F)
	if !c.checkCondition(cond) {
		return 1
	}
	offset := int32(int8(op & 0xFF)) * 2
	c.SetPC(uint32(int32(c.pcRead()) + offset))
	return 3
}

func (c *CPU) thumbBranch(op uint16) int {
	offset := signExtend11(op&0x07FF) * 2
	c.SetPC(uint32(int32(c.pcRead()) + offset))
	return 3
}

func signExtend11(v uint16) int32 {
	if v&0x0400 != 0 {
		return int32(v) - 0x0800
	}
	return int32(v)
}

func (c *CPU) thumbBranchLink(op uint16) int {
	low := op&0x0800 != 0
	offset11 := uint32(op & 0x07FF)
	if !low {
		// first instruction: LR = PC + (signExtend(offset11) << 12)
		c.SetR(14, uint32(int32(c.pcRead())+int32(signExtend11(uint16(offset11)))<<12))
		return 1
	}
	target := c.R(14) + offset11<<1
	nextInstr := (c.PC() + 2) | 1
	c.SetPC(target)
	c.SetR(14, nextInstr)
	return 3
}
