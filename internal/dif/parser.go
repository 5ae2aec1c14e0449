package dif

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RecordMap holds the records decoded from one telegram's application
// payload, keyed by the uppercase hex of each record's DIB+VIB header.
// Insertion order is preserved for the tie-break rule used by Find.
type RecordMap struct {
	records map[string]*DataRecord
	order   []string
}

// NewRecordMap returns an empty RecordMap.
func NewRecordMap() *RecordMap {
	return &RecordMap{records: make(map[string]*DataRecord)}
}

// Get returns the record for key, if present.
func (m *RecordMap) Get(key string) (*DataRecord, bool) {
	r, ok := m.records[key]
	return r, ok
}

// Records returns all records in insertion order.
func (m *RecordMap) Records() []*DataRecord {
	out := make([]*DataRecord, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.records[k])
	}
	return out
}

func (m *RecordMap) insert(r *DataRecord) {
	if _, exists := m.records[r.Key]; !exists {
		m.order = append(m.order, r.Key)
	}
	m.records[r.Key] = r
}

// Parse decodes the long-frame DIB/VIB record sequence in data, returning
// the record map and any manufacturer-specific remainder bytes following a
// 0x0F/0x1F terminator DIF (nil if the payload was consumed in full).
func Parse(data []byte) (*RecordMap, []byte, error) {
	rm := NewRecordMap()
	pos := 0

	for pos < len(data) {
		if data[pos] == 0x2F {
			pos++
			continue
		}

		h, next, err := readHeader(data, pos)
		if err != nil {
			// Record parse failure: accept everything decoded so far,
			// discard the rest (spec §7 error kind 5).
			return rm, nil, fmt.Errorf("dif: %w", err)
		}

		if h.special {
			return rm, data[next:], nil
		}

		valueLen := h.length.bytes
		if h.length.variable {
			if next >= len(data) {
				return rm, nil, fmt.Errorf("dif: truncated LVAR length byte at offset %d", next)
			}
			valueLen = int(data[next])
			next++
		}
		if next+valueLen > len(data) {
			return rm, nil, fmt.Errorf("dif: record at offset %d declares %d data bytes but only %d remain", pos, valueLen, len(data)-next)
		}

		valueBytes := data[next:next+valueLen]
		rm.insert(buildRecord(h, valueBytes))
		pos = next + valueLen
	}

	return rm, nil, nil
}

// ExtractHeaderTemplate walks data the same way Parse does, but returns only
// the concatenated DIB+VIB header bytes (no data bytes) of every record up
// to the first manufacturer-specific terminator or end of input. This is
// the template a compact frame's format signature is computed from and
// decoded against.
func ExtractHeaderTemplate(data []byte) []byte {
	var headers []byte
	pos := 0

	for pos < len(data) {
		if data[pos] == 0x2F {
			pos++
			continue
		}

		h, next, err := readHeader(data, pos)
		if err != nil {
			break
		}
		if h.special {
			break
		}
		headers = append(headers, h.raw...)

		valueLen := h.length.bytes
		if h.length.variable {
			if next >= len(data) {
				break
			}
			valueLen = int(data[next])
			next++
		}
		if next+valueLen > len(data) {
			break
		}
		pos = next + valueLen
	}

	return headers
}

// ParseCompact decodes a compact-frame payload: headerTemplate holds the
// concatenated DIB+VIB headers observed in a prior long frame (no data
// bytes), and data holds only the value bytes for those same records, in
// the same order.
func ParseCompact(data []byte, headerTemplate []byte) (*RecordMap, error) {
	rm := NewRecordMap()
	tpos := 0
	dpos := 0

	for tpos < len(headerTemplate) {
		if headerTemplate[tpos] == 0x2F {
			tpos++
			continue
		}

		h, next, err := readHeader(headerTemplate, tpos)
		if err != nil {
			return rm, fmt.Errorf("dif: compact template: %w", err)
		}
		if h.special {
			break
		}
		tpos = next

		valueLen := h.length.bytes
		if h.length.variable {
			if dpos >= len(data) {
				return rm, fmt.Errorf("dif: compact frame truncated at LVAR length byte")
			}
			valueLen = int(data[dpos])
			dpos++
		}
		if dpos+valueLen > len(data) {
			return rm, fmt.Errorf("dif: compact frame declares %d data bytes but only %d remain", valueLen, len(data)-dpos)
		}

		valueBytes := data[dpos : dpos+valueLen]
		rm.insert(buildRecord(h, valueBytes))
		dpos += valueLen
	}

	return rm, nil
}

func buildRecord(h header, valueBytes []byte) *DataRecord {
	key := strings.ToUpper(hex.EncodeToString(h.raw))

	r := &DataRecord{
		Key:       key,
		Type:      h.typ,
		StorageNr: h.storageNr,
		Tariff:    h.tariff,
		Subunit:   h.subunit,
		Encoding:  h.length.encoding,
		RawHex:    strings.ToUpper(hex.EncodeToString(valueBytes)),
	}

	if entry, ok := classifyVIF(h.vif); ok {
		r.ValueInformation = entry.quantity
		r.Scale = entry.scale
		raw := decodeRaw(h.length.encoding, valueBytes)
		r.Value = raw * entry.scale
	}

	return r
}
