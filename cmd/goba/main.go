// Command goba is a demo CLI wrapper around the core: load a ROM (and an
// optional GBA BIOS), detect or force the system, run a fixed number of
// frames, and print a summary line. It owns no window, no audio callback,
// and writes no image file — those are host concerns outside the core
// (§1 Non-goals; §10.5).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LJS360d/goba/internal/cartridge"
	"github.com/LJS360d/goba/internal/config"
	"github.com/LJS360d/goba/internal/coreerr"
	"github.com/LJS360d/goba/internal/dbg"
	"github.com/LJS360d/goba/internal/gb"
	"github.com/LJS360d/goba/internal/gba"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "goba",
		Usage: "run a Game Boy / Game Boy Advance ROM for a fixed number of frames",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Required: true, Usage: "path to the ROM file"},
			&cli.StringFlag{Name: "bios", Usage: "path to a 16384-byte GBA BIOS image (optional)"},
			&cli.StringFlag{Name: "config", Usage: "path to a TOML config file (optional)"},
			&cli.IntFlag{Name: "frames", Value: 60, Usage: "number of frames to run"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if p := c.String("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	dbg.SetEnabled(cfg.DebugLog)

	rom, err := os.ReadFile(c.String("rom"))
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	if err := cartridge.CheckROM(rom); err != nil {
		return err
	}

	system := detectSystem(rom, cfg)
	frames := c.Int("frames")

	switch system {
	case cartridge.SystemGBA:
		var bios []byte
		if p := c.String("bios"); p != "" {
			bios, err = os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("reading bios: %w", err)
			}
			if err := cartridge.CheckGBABIOS(bios); err != nil {
				return err
			}
		}
		core := gba.New(rom, bios)
		core.SetWaitstateOverride(cfg.WaitstateOverride)
		core.Reset()
		for i := 0; i < frames; i++ {
			core.RunFrame()
		}
		fb := core.Framebuffer()
		fmt.Printf("goba: ran %d GBA frames, title=%q, framebuffer=%dx%d\n",
			frames, core.Cart.Header.Title, fb.Width, fb.Height)

	case cartridge.SystemDMG, cartridge.SystemCGB:
		core := gb.New(rom)
		core.Reset()
		for i := 0; i < frames; i++ {
			core.RunFrame()
		}
		fb := core.Framebuffer()
		fmt.Printf("goba: ran %d GB frames, system=%s, framebuffer=%dx%d\n",
			frames, system, fb.Width, fb.Height)

	default:
		return coreerr.ErrUnknownSystem
	}
	return nil
}

func detectSystem(rom []byte, cfg config.Config) cartridge.System {
	switch cfg.System {
	case config.ForceGBA:
		return cartridge.SystemGBA
	case config.ForceDMG:
		return cartridge.SystemDMG
	case config.ForceCGB:
		return cartridge.SystemCGB
	default:
		s := cartridge.DetectPreferCGB(rom, cfg.PreferCGB)
		dbg.Printf("goba: auto-detected system %s\n", s)
		return s
	}
}
