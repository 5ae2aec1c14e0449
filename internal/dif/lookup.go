package dif

import "fmt"

// Find scans m for a record whose VIF decodes to vi at the given storage
// number (AnyStorageNr to match any), returning its key. Ties are broken by
// lowest storage number, then by insertion order.
func Find(m *RecordMap, vi ValueInformation, storageNr int) (string, bool) {
	var best *DataRecord
	for _, key := range m.order {
		r := m.records[key]
		if r.ValueInformation != vi {
			continue
		}
		if storageNr != AnyStorageNr && r.StorageNr != storageNr {
			continue
		}
		if best == nil || r.StorageNr < best.StorageNr {
			best = r
		}
	}
	if best == nil {
		return "", false
	}
	return best.Key, true
}

// AsDouble returns the decoded numeric value of the record at key, already
// converted to the quantity's canonical unit.
func AsDouble(m *RecordMap, key string) (float64, error) {
	r, ok := m.Get(key)
	if !ok {
		return 0, fmt.Errorf("dif: no record for key %q", key)
	}
	return r.Value, nil
}
