package cpu

// reg8 reads one of the eight operand slots opcodes index by their low 3
// bits, in SM83's canonical B,C,D,E,H,L,(HL),A order.
func (c *CPU) reg8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.Read8(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.Write8(c.HL(), v)
	default:
		c.A = v
	}
}

// isHLIndirect reports whether idx refers to the (HL) operand slot, which
// costs extra M-cycles relative to a plain register.
func isHLIndirect(idx uint8) bool { return idx == 6 }

// reg16 reads one of the four 16-bit pairs opcodes index by bits 4-5 in
// the BC,DE,HL,SP group (used by INC/DEC rr, ADD HL,rr, LD rr,d16).
func (c *CPU) reg16(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setReg16(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// reg16Stk is the BC,DE,HL,AF group used by PUSH/POP.
func (c *CPU) reg16Stk(idx uint8) uint16 {
	if idx == 3 {
		return c.AF()
	}
	return c.reg16(idx)
}

func (c *CPU) setReg16Stk(idx uint8, v uint16) {
	if idx == 3 {
		c.SetAF(v)
		return
	}
	c.setReg16(idx, v)
}

// condition evaluates one of the four branch conditions (NZ,Z,NC,C)
// opcodes index by bits 3-4 of the conditional jump/call/ret encodings.
func (c *CPU) condition(idx uint8) bool {
	switch idx {
	case 0:
		return !c.GetFlag(FlagZ)
	case 1:
		return c.GetFlag(FlagZ)
	case 2:
		return !c.GetFlag(FlagC)
	default:
		return c.GetFlag(FlagC)
	}
}
