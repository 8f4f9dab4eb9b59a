// Package config loads core tunables from a TOML file.
//
// Everything here is optional — a zero-value Config is exactly the core's
// hardware-default behavior. Grounded on lookbusy1344-arm_emulator, a
// retrieval-pack ARM interpreter that configures itself the same way.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ForceSystem overrides auto-detection (§6 System-type detection).
type ForceSystem string

const (
	ForceAuto ForceSystem = ""
	ForceGBA  ForceSystem = "gba"
	ForceDMG  ForceSystem = "dmg"
	ForceCGB  ForceSystem = "cgb"
)

// Config holds every tunable the core accepts. Field names mirror the
// lower-case TOML keys a user would hand-write.
type Config struct {
	// System forces system detection instead of inspecting signature bytes.
	System ForceSystem `toml:"system"`

	// PreferCGB decides DMG vs CGB when a cartridge is CGB-aware (0x80) but
	// not CGB-only (0xC0). Irrelevant for CGB-only or DMG-only titles.
	PreferCGB bool `toml:"prefer_cgb"`

	// WaitstateOverride, when non-zero, replaces the WAITCNT-derived N-cycle
	// cost for ROM wait-state bank 0 (0x08-0x09) instead of the hardware
	// default. 0 means "use hardware default".
	WaitstateOverride int `toml:"waitstate_override"`

	// DebugLog toggles the dbg package's verbose path. Only effective in a
	// `debug`-tagged build; a no-op otherwise.
	DebugLog bool `toml:"debug_log"`
}

// Default returns the zero-tuning configuration (pure hardware defaults).
func Default() Config {
	return Config{System: ForceAuto}
}

// Load reads and parses a TOML config file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
