package cartridge

import (
	"hash/crc32"

	"github.com/LJS360d/goba/internal/coreerr"
	"github.com/LJS360d/goba/internal/dbg"
)

// GBABIOSSize is the fixed size of the GBA boot ROM (§6 BIOS input).
const GBABIOSSize = 16384

// gbaBIOSCRC32 is the expected CRC32 of the GBA BIOS; a mismatch is a
// recoverable-at-load warning, not a load failure (§6, §7.2).
const gbaBIOSCRC32 = 0xBAAE187F

// CheckGBABIOS validates a BIOS image's length (fatal-at-load, §7.1) and
// warns on a CRC32 mismatch (recoverable-at-load, §7.2).
func CheckGBABIOS(bios []byte) error {
	if len(bios) != GBABIOSSize {
		return coreerr.ErrBIOSSize
	}
	if crc32.ChecksumIEEE(bios) != gbaBIOSCRC32 {
		dbg.Printf("cartridge: GBA BIOS CRC32 mismatch (got %08X, want %08X)\n", crc32.ChecksumIEEE(bios), gbaBIOSCRC32)
	}
	return nil
}

// CheckROM validates a raw ROM image's length against fatal-at-load bounds
// (§7.1): non-empty, and no larger than the 32MiB GBA cartridge address
// window. The size limit is applied to every image, GB or GBA.
func CheckROM(rom []byte) error {
	if len(rom) == 0 {
		return coreerr.ErrROMEmpty
	}
	const gbaMaxROM = 32 * 1024 * 1024
	if len(rom) > gbaMaxROM {
		return coreerr.ErrROMTooLarge
	}
	return nil
}
