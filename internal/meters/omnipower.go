package meters

import (
	"fmt"

	"github.com/2007M4N/wmbusmeters/internal/dif"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// Omnipower decodes the Kamstrup Omnipower electricity meter: AES-CBC
// mode-5, single total-forward-energy record.
type Omnipower struct {
	Common
}

func (m *Omnipower) CommonState() *Common { return &m.Common }

func (m *Omnipower) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIEnergy)
	if !ok {
		return fmt.Errorf("omnipower: no energy record")
	}
	m.setField("total", units.Energy, units.KWH, total, true, true, "total forward energy")
	return nil
}
