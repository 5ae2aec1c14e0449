// Package meters implements the per-family decoders that turn a parsed
// DIB/VIB record map into named, typed physical-quantity fields.
package meters

import (
	"time"

	"github.com/2007M4N/wmbusmeters/internal/dif"
	"github.com/2007M4N/wmbusmeters/internal/drivers"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// Field is one published value, described for both the tab and the JSON
// output renderings. Most fields carry a numeric Value in DefaultUnit; a
// status/text field (IsText) instead carries a human-readable string in
// Text and is rendered verbatim, bypassing unit conversion.
type Field struct {
	Name          string
	Quantity      units.Quantity
	DefaultUnit   units.Unit
	Value         float64
	Text          string
	IsText        bool
	IncludeInTab  bool
	IncludeInJSON bool
	Help          string
}

// Common is the shared state every meter driver embeds by composition (not
// inheritance): identity, match expressions, and the bookkeeping each
// decoder updates on every accepted telegram.
type Common struct {
	Name       string
	DriverName string
	IDMatches  []string // exact BCD id strings, or "*" for any

	Fields     []Field
	LastUpdate time.Time
}

// Matches reports whether id satisfies one of c's match expressions.
func (c *Common) Matches(id string) bool {
	for _, m := range c.IDMatches {
		if m == "*" || m == id {
			return true
		}
	}
	return false
}

// Field looks up a published field by name.
func (c *Common) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (c *Common) setField(name string, q units.Quantity, unit units.Unit, value float64, tab, json bool, help string) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			c.Fields[i].Value = value
			return
		}
	}
	c.Fields = append(c.Fields, Field{
		Name: name, Quantity: q, DefaultUnit: unit, Value: value,
		IncludeInTab: tab, IncludeInJSON: json, Help: help,
	})
}

// setTextField upserts a human-readable status/text field by name, such as
// the Multical21 info-codes status string.
func (c *Common) setTextField(name, text string, tab, json bool, help string) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			c.Fields[i].Text = text
			return
		}
	}
	c.Fields = append(c.Fields, Field{
		Name: name, Text: text, IsText: true,
		IncludeInTab: tab, IncludeInJSON: json, Help: help,
	})
}

// Decoder is implemented by every meter family. Decode updates the driver's
// published fields from a telegram's parsed record map; rawAPL is the
// decrypted application payload, needed by drivers with fixed-offset
// heuristics that fall outside the DIB/VIB record grammar.
type Decoder interface {
	Decode(records *dif.RecordMap, rawAPL []byte) error
	CommonState() *Common
}

// New constructs the decoder for a named driver, pre-populated with the
// given meter name and ID match expressions.
func New(driverName, meterName string, idMatches []string) (Decoder, error) {
	if _, err := drivers.ToDriver(driverName); err != nil {
		return nil, err
	}

	base := Common{Name: meterName, DriverName: driverName, IDMatches: idMatches}

	switch driverName {
	case "amiplus":
		return &Amiplus{Common: base}, nil
	case "apator162":
		return &Apator162{Common: base}, nil
	case "flowiq3100":
		return &Multical21{Common: base}, nil
	case "iperl":
		return &Iperl{Common: base}, nil
	case "mkradio3":
		return &MKRadio3{Common: base}, nil
	case "multical21":
		return &Multical21{Common: base}, nil
	case "multical302":
		return &Multical302{Common: base}, nil
	case "omnipower":
		return &Omnipower{Common: base}, nil
	case "qcaloric":
		return &QCaloric{Common: base}, nil
	case "supercom587":
		return &Supercom587{Common: base}, nil
	case "vario451":
		return &Vario451{Common: base}, nil
	}

	panic("meters: driver registered but not wired to a decoder: " + driverName)
}

func extractDouble(records *dif.RecordMap, vi dif.ValueInformation) (float64, bool) {
	key, ok := dif.Find(records, vi, dif.AnyStorageNr)
	if !ok {
		return 0, false
	}
	v, err := dif.AsDouble(records, key)
	if err != nil {
		return 0, false
	}
	return v, true
}
