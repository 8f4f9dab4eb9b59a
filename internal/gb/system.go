// Package gb wires the SM83 CPU, memory bus, PPU, timer and MBC into a
// runnable Game Boy core and drives it one frame at a time (§4, §4.2-4.4).
package gb

import (
	"github.com/LJS360d/goba/internal/cartridge"
	"github.com/LJS360d/goba/internal/gb/bus"
	"github.com/LJS360d/goba/internal/gb/cpu"
	"github.com/LJS360d/goba/internal/gb/mbc"
	"github.com/LJS360d/goba/internal/gb/ppu"
	"github.com/LJS360d/goba/internal/gb/timer"
	"github.com/LJS360d/goba/internal/input"
	"github.com/LJS360d/goba/internal/video"
)

// System owns every Game Boy core component and advances them together.
type System struct {
	CPU   *cpu.CPU
	Bus   *bus.Bus
	PPU   *ppu.PPU
	Timer *timer.Timer
	Input *input.Keypad
}

// New builds a Game Boy core from cartridge ROM bytes, detecting the MBC
// type and RAM size from the header.
func New(rom []byte) *System {
	header := cartridge.ParseGBHeader(rom)
	m := mbc.New(header.MBC, rom, header.RAMSize)

	b := bus.New(m)
	p := ppu.New()
	t := timer.New()
	kp := input.NewKeypad()

	b.PPU = p
	b.Timer = t
	b.Input = kp
	p.IRQ = b
	t.IRQ = b

	c := cpu.New(b)

	return &System{CPU: c, Bus: b, PPU: p, Timer: t, Input: kp}
}

// Reset restores the CPU's post-power-on register state; bus, PPU and timer
// state is left as it is.
func (s *System) Reset() {
	s.CPU.Reset()
}

// RunFrame executes instructions until the PPU reports a completed frame,
// ticking the PPU and timer alongside every CPU step.
func (s *System) RunFrame() {
	s.PPU.ResetFrameReady()
	for !s.PPU.IsFrameReady() {
		cycles := s.CPU.Step()
		s.PPU.Tick(cycles)
		s.Timer.Tick(cycles)
	}
}

// Framebuffer returns the PPU's current rendered frame.
func (s *System) Framebuffer() *video.Framebuffer {
	return s.PPU.FB
}
