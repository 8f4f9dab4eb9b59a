package cpu

// executeCB dispatches a CB-prefixed opcode. The low 3 bits select the
// operand (B,C,D,E,H,L,(HL),A); bits 3-5 select the rotate/shift kind or
// bit index; bits 6-7 select the ROT/BIT/RES/SET group.
func (c *CPU) executeCB(op uint8) int {
	reg := op & 0x07
	group := op >> 6
	bitOrKind := (op >> 3) & 0x07
	v := c.reg8(reg)

	var result uint8
	switch group {
	case 0: // rotate/shift/swap
		switch bitOrKind {
		case 0:
			result = c.rlc(v)
		case 1:
			result = c.rrc(v)
		case 2:
			result = c.rl(v)
		case 3:
			result = c.rr(v)
		case 4:
			result = c.sla(v)
		case 5:
			result = c.sra(v)
		case 6:
			result = c.swap(v)
		case 7:
			result = c.srl(v)
		}
		c.setReg8(reg, result)
	case 1: // BIT n,r
		c.bit(bitOrKind, v)
		if isHLIndirect(reg) {
			return 12
		}
		return 8
	case 2: // RES n,r
		c.setReg8(reg, res(bitOrKind, v))
	case 3: // SET n,r
		c.setReg8(reg, set(bitOrKind, v))
	}

	if isHLIndirect(reg) {
		return 16
	}
	return 8
}
