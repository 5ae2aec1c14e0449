// Package output renders a meter's published fields into the three target
// forms consumed by operators and shell hooks: tab-separated human-readable
// text, separator-delimited fields, and a JSON object.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2007M4N/wmbusmeters/internal/meters"
	"github.com/2007M4N/wmbusmeters/internal/units"
)

// Update is one accepted telegram's worth of rendering input.
type Update struct {
	Media     string
	Meter     string
	ID        string
	Fields    []meters.Field
	Timestamp time.Time

	// ConvertTo optionally overrides the default unit for a quantity name
	// (matched against units.Quantity.String()), e.g. {"Volume": units.L}.
	ConvertTo map[string]units.Unit

	// ExtraJSON is merged into the JSON rendering verbatim (per-meter
	// configured extra fields).
	ExtraJSON map[string]string
}

func (u Update) resolvedValue(f meters.Field) (float64, units.Unit, error) {
	target := f.DefaultUnit
	if u.ConvertTo != nil {
		if to, ok := u.ConvertTo[f.Quantity.String()]; ok {
			target = to
		}
	}
	v, err := units.To(target, f.DefaultUnit, f.Value)
	if err != nil {
		return 0, "", err
	}
	return v, target, nil
}

// Human renders the tab-separated line: name, id, one column per tab-
// included field, then the local timestamp.
func Human(u Update) (string, error) {
	cols := []string{u.Meter, u.ID}
	for _, f := range u.Fields {
		if !f.IncludeInTab {
			continue
		}
		if f.IsText {
			cols = append(cols, f.Text)
			continue
		}
		v, _, err := u.resolvedValue(f)
		if err != nil {
			return "", fmt.Errorf("output: %s: %w", f.Name, err)
		}
		cols = append(cols, strconv.FormatFloat(v, 'f', -1, 64))
	}
	cols = append(cols, u.Timestamp.Local().Format("2006-01-02 15:04:05"))
	return strings.Join(cols, "\t"), nil
}

// Fields renders the same columns as Human but joined with sep and without
// units in the header (the caller already knows the schema).
func Fields(u Update, sep string) (string, error) {
	cols := []string{u.Meter, u.ID}
	for _, f := range u.Fields {
		if !f.IncludeInTab {
			continue
		}
		if f.IsText {
			cols = append(cols, f.Text)
			continue
		}
		v, _, err := u.resolvedValue(f)
		if err != nil {
			return "", fmt.Errorf("output: %s: %w", f.Name, err)
		}
		cols = append(cols, strconv.FormatFloat(v, 'f', -1, 64))
	}
	cols = append(cols, u.Timestamp.Local().Format("2006-01-02 15:04:05"))
	return strings.Join(cols, sep), nil
}

// JSON renders the object form: media, meter, name, id, one `<field>_<unit>`
// key per JSON-included field, and timestamp in UTC.
func JSON(u Update) ([]byte, error) {
	obj := map[string]interface{}{
		"media":     u.Media,
		"meter":     u.Meter,
		"name":      u.Meter,
		"id":        u.ID,
		"timestamp": u.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}

	for _, f := range u.Fields {
		if !f.IncludeInJSON {
			continue
		}
		if f.IsText {
			obj[f.Name] = f.Text
			continue
		}
		v, unit, err := u.resolvedValue(f)
		if err != nil {
			return nil, fmt.Errorf("output: %s: %w", f.Name, err)
		}
		key := fmt.Sprintf("%s_%s", f.Name, unit)
		obj[key] = v
	}

	for k, v := range u.ExtraJSON {
		obj[k] = v
	}

	return json.Marshal(obj)
}

// EnvVars builds the METER_* shell-environment entries for an accepted
// update, one per JSON-included field, uppercased with the unit suffix.
func EnvVars(u Update) ([]string, error) {
	var out []string
	out = append(out, "METER_ID="+u.ID)
	out = append(out, "METER_NAME="+u.Meter)
	out = append(out, "METER_MEDIA="+u.Media)
	out = append(out, "METER_TIMESTAMP="+u.Timestamp.UTC().Format("2006-01-02T15:04:05Z"))

	for _, f := range u.Fields {
		if !f.IncludeInJSON {
			continue
		}
		if f.IsText {
			name := strings.ToUpper(fmt.Sprintf("METER_%s", f.Name))
			out = append(out, fmt.Sprintf("%s=%s", name, f.Text))
			continue
		}
		v, unit, err := u.resolvedValue(f)
		if err != nil {
			return nil, fmt.Errorf("output: %s: %w", f.Name, err)
		}
		name := strings.ToUpper(fmt.Sprintf("METER_%s_%s", f.Name, unit))
		out = append(out, fmt.Sprintf("%s=%s", name, strconv.FormatFloat(v, 'f', -1, 64)))
	}

	sort.Strings(out[4:])
	return out, nil
}
