package gba

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFrameAdvancesCyclesAndCompletesFrame(t *testing.T) {
	rom := make([]byte, 0x1000)
	sys := New(rom, nil)
	sys.Reset()

	before := sys.Scheduler.CurrentCycles()
	sys.RunFrame()
	after := sys.Scheduler.CurrentCycles()

	assert.Greater(t, after, before)
	assert.True(t, sys.PPU.IsFrameReady())
}

func TestFramebufferHasNativeGBADimensions(t *testing.T) {
	sys := New(make([]byte, 0x1000), nil)
	fb := sys.Framebuffer()
	assert.Equal(t, 240, fb.Width)
	assert.Equal(t, 160, fb.Height)
}
