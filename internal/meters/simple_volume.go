package meters

import (
	"fmt"

	"github.com/2007M4N/wmbusmeters/internal/dif"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// Iperl, MKRadio3 and Amiplus follow the same shape: select an expected
// record by VIF semantics, extract one double, expose it under a named
// field. Each gets its own type (rather than a shared generic struct) to
// keep room for driver-specific quirks without reshaping the decoder
// interface later.

// Iperl decodes the Sensus iPERL water meter.
type Iperl struct{ Common }

func (m *Iperl) CommonState() *Common { return &m.Common }

func (m *Iperl) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIVolume)
	if !ok {
		return fmt.Errorf("iperl: no volume record")
	}
	m.setField("total", units.Volume, units.M3, total, true, true, "total volume")
	return nil
}

// MKRadio3 decodes the Kamstrup MKRadio3 water meter.
type MKRadio3 struct{ Common }

func (m *MKRadio3) CommonState() *Common { return &m.Common }

func (m *MKRadio3) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIVolume)
	if !ok {
		return fmt.Errorf("mkradio3: no volume record")
	}
	m.setField("total", units.Volume, units.M3, total, true, true, "total volume")
	return nil
}

// Amiplus decodes the Apator Amiplus electricity meter.
type Amiplus struct{ Common }

func (m *Amiplus) CommonState() *Common { return &m.Common }

func (m *Amiplus) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIEnergy)
	if !ok {
		return fmt.Errorf("amiplus: no energy record")
	}
	m.setField("total", units.Energy, units.KWH, total, true, true, "total energy")

	if power, ok := extractDouble(records, dif.VIPower); ok {
		m.setField("power", units.Power, units.W, power, true, true, "current power")
	}
	return nil
}

// Multical302 decodes the Kamstrup Multical302 heat meter.
type Multical302 struct{ Common }

func (m *Multical302) CommonState() *Common { return &m.Common }

func (m *Multical302) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIEnergy)
	if !ok {
		return fmt.Errorf("multical302: no energy record")
	}
	m.setField("total", units.Energy, units.KWH, total, true, true, "total heat energy")

	if flowTemp, ok := extractDouble(records, dif.VIFlowTemperature); ok {
		m.setField("flow_temperature", units.Temperature, units.C, flowTemp, true, true, "flow temperature")
	}
	if extTemp, ok := extractDouble(records, dif.VIExternalTemperature); ok {
		m.setField("return_temperature", units.Temperature, units.C, extTemp, true, true, "return temperature")
	}
	return nil
}

// Vario451 decodes the Techem Vario451 heat meter.
type Vario451 struct{ Common }

func (m *Vario451) CommonState() *Common { return &m.Common }

func (m *Vario451) Decode(records *dif.RecordMap, rawAPL []byte) error {
	total, ok := extractDouble(records, dif.VIEnergy)
	if !ok {
		return fmt.Errorf("vario451: no energy record")
	}
	m.setField("total", units.Energy, units.KWH, total, true, true, "total heat energy")
	return nil
}

// QCaloric decodes the Qundis QCaloric heat-cost allocator.
type QCaloric struct{ Common }

func (m *QCaloric) CommonState() *Common { return &m.Common }

func (m *QCaloric) Decode(records *dif.RecordMap, rawAPL []byte) error {
	// Heat-cost allocators report a dimensionless consumption unit rather
	// than a physical quantity the DIB/VIB VIF table can classify, so this
	// driver reads the first available record of any recognised quantity
	// as a proxy value rather than requiring a specific VIF.
	for _, r := range records.Records() {
		if r.ValueInformation != 0 {
			m.setField("total", units.HeatCostAllocation, units.HCA, r.Value, true, true, "heat cost allocation units")
			return nil
		}
	}
	return fmt.Errorf("qcaloric: no usable record")
}
