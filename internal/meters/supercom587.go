package meters

import (
	"github.com/2007M4N/wmbusmeters/internal/dif"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// Supercom587 decodes the legacy Kamstrup Supercom587 water meter: its
// records are not well documented and the driver publishes only the total
// volume field (defaulting to 0.0 when no volume record is present, since
// this family's telegrams are frequently accepted without detailed
// records decoded).
type Supercom587 struct {
	Common
}

func (m *Supercom587) CommonState() *Common { return &m.Common }

func (m *Supercom587) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIVolume)
	if !ok {
		total = 0.0
	}
	m.setField("total", units.Volume, units.M3, total, true, true, "total volume")
	return nil
}
