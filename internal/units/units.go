// Package units defines the closed set of physical quantities the decode
// pipeline produces and the unit-conversion tables for each.
package units

import "fmt"

// Quantity is a closed enumeration of the physical quantities meter fields
// can carry.
type Quantity int

const (
	Volume Quantity = iota
	Flow
	Energy
	Power
	Temperature
	RelativeHumidity
	Pressure
	HeatCostAllocation
)

func (q Quantity) String() string {
	switch q {
	case Volume:
		return "Volume"
	case Flow:
		return "Flow"
	case Energy:
		return "Energy"
	case Power:
		return "Power"
	case Temperature:
		return "Temperature"
	case RelativeHumidity:
		return "RelativeHumidity"
	case Pressure:
		return "Pressure"
	case HeatCostAllocation:
		return "HeatCostAllocation"
	default:
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
}

// Unit is a named unit belonging to exactly one Quantity.
type Unit string

const (
	M3    Unit = "m3"
	L     Unit = "l"
	M3H   Unit = "m3h"
	LH    Unit = "lh"
	KWH   Unit = "kwh"
	WH    Unit = "wh"
	MJ    Unit = "mj"
	W     Unit = "w"
	C     Unit = "c"
	F     Unit = "f"
	RH    Unit = "rh"
	Bar   Unit = "bar"
	HCA   Unit = "hca"
)

// entry is one conversion edge: x in `unit` converts to canonical (the
// quantity's default unit) by multiplying by factor and adding offset:
// canonical = x*factor + offset.
type entry struct {
	unit     Unit
	quantity Quantity
	factor   float64
	offset   float64
}

// table lists every known unit, its quantity, and its affine conversion to
// the quantity's canonical (default) unit. The canonical unit itself has
// factor 1, offset 0.
var table = []entry{
	{M3, Volume, 1, 0},
	{L, Volume, 0.001, 0},

	{M3H, Flow, 1, 0},
	{LH, Flow, 0.001, 0},

	{KWH, Energy, 1, 0},
	{WH, Energy, 0.001, 0},
	{MJ, Energy, 0.277778, 0}, // 1 MJ = 0.277778 kWh

	{W, Power, 1, 0},

	{C, Temperature, 1, 0},
	{F, Temperature, 5.0 / 9.0, -32 * 5.0 / 9.0},

	{RH, RelativeHumidity, 1, 0},

	{Bar, Pressure, 1, 0},

	{HCA, HeatCostAllocation, 1, 0},
}

// DefaultUnit returns the canonical unit for a quantity.
func DefaultUnit(q Quantity) Unit {
	switch q {
	case Volume:
		return M3
	case Flow:
		return M3H
	case Energy:
		return KWH
	case Power:
		return W
	case Temperature:
		return C
	case RelativeHumidity:
		return RH
	case Pressure:
		return Bar
	case HeatCostAllocation:
		return HCA
	default:
		return ""
	}
}

func lookup(u Unit) (entry, bool) {
	for _, e := range table {
		if e.unit == u {
			return e, true
		}
	}
	return entry{}, false
}

// To converts x, expressed in unit `from`, into unit `to`. Both units must
// belong to the same quantity. Returns an error for unknown units or a
// cross-quantity conversion.
func To(to, from Unit, x float64) (float64, error) {
	fe, ok := lookup(from)
	if !ok {
		return 0, fmt.Errorf("units: unknown unit %q", from)
	}
	te, ok := lookup(to)
	if !ok {
		return 0, fmt.Errorf("units: unknown unit %q", to)
	}
	if fe.quantity != te.quantity {
		return 0, fmt.Errorf("units: cannot convert %q (%s) to %q (%s)", from, fe.quantity, to, te.quantity)
	}
	canonical := x*fe.factor + fe.offset
	return (canonical - te.offset) / te.factor, nil
}

// QuantityOf returns the quantity a unit belongs to.
func QuantityOf(u Unit) (Quantity, bool) {
	e, ok := lookup(u)
	if !ok {
		return 0, false
	}
	return e.quantity, true
}
