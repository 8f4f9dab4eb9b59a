package cpu

// Bus is the memory contract the CPU drives, matching the bus's
// width-parameterized read/write surface. Each access reports its own
// cycle cost (region/width/WAITCNT/sequential-access dependent), which
// the CPU sums into the instruction's total (§4.3 Timing).
type Bus interface {
	Read8(addr uint32) (uint8, int)
	Write8(addr uint32, value uint8) int
	Read16(addr uint32) (uint16, int)
	Write16(addr uint32, value uint16) int
	Read32(addr uint32) (uint32, int)
	Write32(addr uint32, value uint32) int
}

// IRQSource lets the bus/peripherals tell the CPU an IRQ line is pending
// without the CPU polling IE/IF registers itself.
type IRQSource interface {
	IRQPending() bool
}

const (
	vectorReset     = 0x00000000
	vectorUndefined = 0x00000004
	vectorSWI       = 0x00000008
	vectorPrefetch  = 0x0000000C
	vectorAbort     = 0x00000010
	vectorIRQ       = 0x00000018
	vectorFIQ       = 0x0000001C
)

// CPU is the ARM7TDMI interpreter: the physical register file, the bus
// it executes against, a 64-bit cycle counter, and a halted flag for
// GBA's low-power HALT/STOP states.
type CPU struct {
	*Registers
	bus Bus
	irq IRQSource

	Cycles  uint64
	Halted  bool

	pipelineValid bool
}

func New(bus Bus, irq IRQSource) *CPU {
	return &CPU{Registers: NewRegisters(), bus: bus, irq: irq}
}

// SetHalted implements bus.Haltable so a HALTCNT write can stop execution
// without the bus importing this package.
func (c *CPU) SetHalted(halted bool) { c.Halted = halted }

// Reset sets post-BIOS-handoff state for a cartridge boot with no BIOS
// (standard GBA entry point and mode).
func (c *CPU) Reset() {
	c.SetCPSR(ModeSYS)
	c.SetR(13, 0x03007F00)
	c.SetPC(0x08000000)
	c.Halted = false
	c.Cycles = 0
	c.pipelineValid = true
}

// pcRead returns r15 as instruction fetch sees it: the currently executing
// instruction's own address plus 8 in ARM state (two instructions ahead),
// plus 4 in Thumb (one instruction ahead) (§9 pipeline accounting). Step
// never pre-advances PC before dispatch, so c.PC() here is always that
// instruction's own address.
func (c *CPU) pcRead() uint32 {
	if c.IsThumb() {
		return c.PC() + 4
	}
	return c.PC() + 8
}

// pcReporter and fetchRecorder are optional bus capabilities: the GBA bus
// implements both (BIOS PC-gating and the open-bus fetch shadow), but the
// CPU's own Bus contract stays minimal so test doubles don't need them.
type pcReporter interface{ SetCPUPC(pc uint32) }
type fetchRecorder interface{ RecordOpcodeFetch(word uint32) }

// SetPC writes r15 and marks the instruction pipeline as refilled, which
// tells Step to skip its post-instruction width advance: a taken branch,
// an r15-destination data-processing op, or an exception-vector jump has
// already left PC pointing at the right next fetch address (§4.1 pipeline
// refill / "pipelineValid").
func (c *CPU) SetPC(v uint32) {
	c.Registers.SetPC(v)
	c.pipelineValid = false
}

// R reads logical register n; r15 reads as the pipeline-visible pcRead value.
func (c *CPU) R(n uint32) uint32 {
	if n == 15 {
		return c.pcRead()
	}
	return c.Registers.R(n)
}

// SetR writes logical register n; an r15 write goes through SetPC.
func (c *CPU) SetR(n uint32, v uint32) {
	if n == 15 {
		c.SetPC(v)
		return
	}
	c.Registers.SetR(n, v)
}

// Step executes one instruction (or consumes one idle cycle while
// halted) and returns its cycle cost.
func (c *CPU) Step() int {
	if c.irq != nil && c.irq.IRQPending() && !c.GetFlag(FlagI) {
		return c.enterException(ModeIRQ, vectorIRQ, 4, c.PC())
	}
	if c.Halted {
		return 1
	}
	if r, ok := c.bus.(pcReporter); ok {
		r.SetCPUPC(c.PC())
	}

	instrAddr := c.PC()
	c.pipelineValid = true

	if c.IsThumb() {
		opcode, fetchCycles := c.bus.Read16(instrAddr)
		if r, ok := c.bus.(fetchRecorder); ok {
			r.RecordOpcodeFetch(uint32(opcode) | uint32(opcode)<<16)
		}
		cycles := c.executeThumb(opcode)
		if c.pipelineValid {
			c.SetPC(instrAddr + 2)
		}
		return fetchCycles + cycles
	}

	opcode, fetchCycles := c.bus.Read32(instrAddr)
	if r, ok := c.bus.(fetchRecorder); ok {
		r.RecordOpcodeFetch(opcode)
	}
	cond := Condition(opcode >> 28)
	if !c.checkCondition(cond) {
		c.SetPC(instrAddr + 4)
		return fetchCycles
	}
	cycles := c.executeARM(opcode)
	if c.pipelineValid {
		c.SetPC(instrAddr + 4)
	}
	return fetchCycles + cycles
}

// enterException performs the banked-mode exception entry sequence: save
// CPSR to the new mode's SPSR, switch mode, disable IRQ (and FIQ for
// Reset/FIQ), clear the Thumb bit (enter ARM state), save a return address (the caller's
// responsibility to compute, since Step never pre-advances PC), and jump
// to the fixed vector.
func (c *CPU) enterException(mode uint32, vector uint32, lrOffset uint32, returnPC uint32) int {
	savedCPSR := c.CPSR()
	c.SetMode(mode)
	c.SetSPSR(savedCPSR)
	c.SetFlag(FlagT, false)
	c.SetFlag(FlagI, true)
	if mode == ModeFIQ || vector == vectorReset {
		c.SetFlag(FlagF, true)
	}
	c.SetR(14, returnPC+lrOffset-4)
	c.SetPC(vector)
	c.Halted = false
	return 3
}
