// Package gba wires the ARM7TDMI CPU, region-decoded bus, scanline PPU and
// event scheduler into a runnable GBA core and drives it one frame at a
// time (§4, §4.5, §4.6).
package gba

import (
	"github.com/LJS360d/goba/internal/cartridge"
	"github.com/LJS360d/goba/internal/dbg"
	"github.com/LJS360d/goba/internal/gba/bus"
	"github.com/LJS360d/goba/internal/gba/cpu"
	"github.com/LJS360d/goba/internal/gba/ppu"
	"github.com/LJS360d/goba/internal/gba/scheduler"
	"github.com/LJS360d/goba/internal/input"
	"github.com/LJS360d/goba/internal/video"
)

// hblankDuration is the span of cycles 960-1231 of each 1232-cycle
// scanline (§4.6 State machine).
const hblankDuration = 1232 - 960

// System owns every GBA core component and advances them together.
type System struct {
	CPU       *cpu.CPU
	Bus       *bus.Bus
	PPU       *ppu.PPU
	Scheduler *scheduler.Scheduler
	Input     *input.Keypad
	Cart      *cartridge.GBACartridge
}

// New builds a GBA core from cartridge ROM bytes and an optional BIOS
// image (nil/empty runs straight from the cartridge entry point).
func New(rom []byte, bios []byte) *System {
	cart := cartridge.NewGBACartridge(rom)
	p := ppu.New()
	kp := input.NewKeypad()
	b := bus.New(bios, cart, p, kp)
	p.IRQ = b

	c := cpu.New(b, b)
	b.CPU = c

	return &System{
		CPU:       c,
		Bus:       b,
		PPU:       p,
		Scheduler: scheduler.New(),
		Input:     kp,
		Cart:      cart,
	}
}

// SetWaitstateOverride overrides the WAITCNT-derived N-cycle cost for ROM
// wait-state bank 0 (config.WaitstateOverride); 0 restores hardware
// defaults.
func (s *System) SetWaitstateOverride(cycles int) {
	s.Bus.WaitstateOverride = cycles
}

// Reset restores post-power-on CPU state and the scheduler's initial
// event pair (§4.5 Reset).
func (s *System) Reset() {
	s.CPU.Reset()
	s.Scheduler.Reset()
}

// RunFrame drains due scheduler events before each instruction fetch, then
// executes one CPU instruction and advances the PPU and scheduler clock by
// its cycle cost, until the Frame-complete event fires (§4.5 Main loop).
func (s *System) RunFrame() {
	s.PPU.ResetFrameReady()
	frameDone := false
	for !frameDone {
		for {
			ev, ok := s.Scheduler.Peek()
			if !ok || ev.Timestamp > s.Scheduler.CurrentCycles() {
				break
			}
			ev, _ = s.Scheduler.Pop()
			if s.dispatch(ev) {
				frameDone = true
			}
		}
		cycles := s.CPU.Step()
		s.PPU.Tick(cycles)
		s.Scheduler.Advance(uint64(cycles))
	}
}

// dispatch runs one event's handler, scheduling any follow-up events, and
// reports whether this was the Frame-complete event. HBlank-start schedules
// HBlank-end, HBlank-end schedules the next HBlank-start, and Frame-complete
// schedules the next Frame-complete one frame (228 x 1232 cycles) later.
func (s *System) dispatch(ev scheduler.Event) bool {
	switch ev.Type {
	case scheduler.HBlankStart:
		dbg.Printf("gba: hblank-start @%d\n", ev.Timestamp)
		s.Scheduler.Schedule(scheduler.HBlankEnd, hblankDuration, 0)
	case scheduler.HBlankEnd:
		dbg.Printf("gba: hblank-end @%d\n", ev.Timestamp)
		s.Scheduler.Schedule(scheduler.HBlankStart, visibleCyclesPerLine, 0)
	case scheduler.FrameComplete:
		s.Scheduler.ScheduleAbsolute(scheduler.FrameComplete, ev.Timestamp+228*1232, 0)
		return true
	}
	return false
}

const visibleCyclesPerLine = 960

// Framebuffer returns the PPU's current rendered frame.
func (s *System) Framebuffer() *video.Framebuffer {
	return s.PPU.FB
}
