package meters

import (
	"encoding/binary"
	"fmt"

	"github.com/2007M4N/wmbusmeters/internal/dif"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// apator162VolumeOffset is the byte offset of the total-consumption field
// within the decrypted Apator162 payload, determined empirically from
// captured telegrams. Other firmware revisions may use a different offset;
// this is a heuristic, not a protocol constant (see DESIGN.md open question).
const apator162VolumeOffset = 25

// Apator162 decodes the Apator162 water meter: its payload is mostly
// proprietary, terminated by a trailing manufacturer-specific DIF (0x0F),
// with the total consumption at a fixed offset of the decrypted bytes
// rather than inside a regular DIB/VIB record.
type Apator162 struct {
	Common
}

func (m *Apator162) CommonState() *Common { return &m.Common }

func (m *Apator162) Decode(records *dif.RecordMap, rawAPL []byte) error {
	if len(rawAPL) < apator162VolumeOffset+4 {
		return fmt.Errorf("apator162: payload too short for volume offset %d", apator162VolumeOffset)
	}

	raw := binary.LittleEndian.Uint32(rawAPL[apator162VolumeOffset : apator162VolumeOffset+4])

	// Synthesize the DIB/VIB record (DIF 0x04 32-bit int, VIF 0x13 volume
	// at 10^-3 m3) the generic extractor expects, so the rest of the
	// pipeline treats this driver's reading like any other volume record.
	synthHeader := []byte{0x04, 0x13}
	valueBytes := rawAPL[apator162VolumeOffset : apator162VolumeOffset+4]
	synthesized, err := dif.ParseCompact(valueBytes, synthHeader)
	if err != nil {
		return fmt.Errorf("apator162: synthesized record: %w", err)
	}

	total, ok := extractDouble(synthesized, dif.VIVolume)
	if !ok {
		// Fall back to raw/1000 directly: ParseCompact should always
		// succeed for this fixed header, but never trust a heuristic path
		// to panic on an unreachable branch.
		total = float64(raw) / 1000.0
	}

	m.setField("total", units.Volume, units.M3, total, true, true, "total volume")
	return nil
}
