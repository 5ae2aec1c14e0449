package telegram

import "fmt"

// parseDLL decodes the mandatory Data Link Layer: C(1) M(2) A(6), starting
// at pos (the first byte after the frame-length byte already consumed by
// the frame detector). Returns the offset of the first byte past the DLL.
func parseDLL(t *Telegram, raw []byte, pos int) (int, error) {
	const dllLen = 1 + 2 + 6
	if pos+dllLen > len(raw) {
		return pos, fmt.Errorf("telegram: truncated DLL, need %d bytes at offset %d, have %d", dllLen, pos, len(raw)-pos)
	}

	start := pos
	t.DLL.Control = raw[pos]
	pos++

	t.DLL.Manufacturer = uint16(raw[pos]) | uint16(raw[pos+1])<<8
	pos += 2

	copy(t.DLL.ID[:], raw[pos:pos+4])
	pos += 4
	t.DLL.Version = raw[pos]
	pos++
	t.DLL.DeviceType = raw[pos]
	pos++

	t.explain(raw, start, pos-start, "DLL (C, M, A)")
	return pos, nil
}

// parseELL decodes the Extended Link Layer starting at pos (the CI byte).
func parseELL(t *Telegram, raw []byte, pos int) (int, error) {
	start := pos
	ci := raw[pos]
	pos++

	const ellLen = 1 + 1 + 4 + 2 // CC + access-number + session-number + payload-CRC
	if pos+ellLen > len(raw) {
		return pos, fmt.Errorf("telegram: truncated ELL at offset %d", pos)
	}

	t.ELL.Present = true
	t.ELL.CommControl = raw[pos]
	pos++
	t.ELL.AccessNumber = raw[pos]
	pos++

	t.ELL.SessionNumber = uint32(raw[pos]) | uint32(raw[pos+1])<<8 | uint32(raw[pos+2])<<16 | uint32(raw[pos+3])<<24
	pos += 4

	t.ELL.PayloadCRC = uint16(raw[pos]) | uint16(raw[pos+1])<<8
	pos += 2

	if ci == ciELLII {
		// ELL-II additionally overrides manufacturer/address; the override
		// is not currently consumed by any driver this pipeline targets, so
		// it is skipped rather than stored.
		const overrideLen = 2 + 6
		if pos+overrideLen > len(raw) {
			return pos, fmt.Errorf("telegram: truncated ELL-II override at offset %d", pos)
		}
		pos += overrideLen
	}

	t.explain(raw, start, pos-start, "ELL")
	return pos, nil
}

// parseAFL decodes the Authentication/Fragmentation Layer starting at pos
// (the CI byte). The AFL carries a 1-byte length prefix for its body; the
// first 4 bytes of the body are the message counter and the remainder is
// the (possibly truncated) authentication tag.
func parseAFL(t *Telegram, raw []byte, pos int) (int, error) {
	start := pos
	pos++ // CI

	if pos >= len(raw) {
		return pos, fmt.Errorf("telegram: truncated AFL length at offset %d", pos)
	}
	afLen := int(raw[pos])
	pos++

	if pos+afLen > len(raw) {
		return pos, fmt.Errorf("telegram: AFL declares %d bytes but only %d remain", afLen, len(raw)-pos)
	}
	body := raw[pos : pos+afLen]
	pos += afLen

	t.AFL.Present = true
	if len(body) >= 4 {
		t.AFL.MessageCounter = uint32(body[0]) | uint32(body[1])<<8 | uint32(body[2])<<16 | uint32(body[3])<<24
		t.AFL.MAC = body[4:]
	} else {
		t.AFL.MAC = body
	}

	t.explain(raw, start, pos-start, "AFL")
	return pos, nil
}

// parseTPL decodes the Transport Layer starting at pos (the CI byte).
func parseTPL(t *Telegram, raw []byte, pos int) (int, error) {
	start := pos
	if pos >= len(raw) {
		return pos, fmt.Errorf("telegram: truncated TPL at offset %d", pos)
	}
	ci := raw[pos]
	pos++
	t.TPL.CI = ci

	switch {
	case isTPLLong(ci):
		t.TPL.Long = true
		const hdrLen = 4 + 2 + 1 + 1 + 1 + 1 + 2 // ID, M, version, type, access-number, status, config-word
		if pos+hdrLen > len(raw) {
			return pos, fmt.Errorf("telegram: truncated long TPL header at offset %d", pos)
		}
		copy(t.TPL.ID[:], raw[pos:pos+4])
		pos += 4
		t.TPL.Manufacturer = uint16(raw[pos]) | uint16(raw[pos+1])<<8
		pos += 2
		t.TPL.Version = raw[pos]
		pos++
		t.TPL.DeviceType = raw[pos]
		pos++
		t.TPL.AccessNumber = raw[pos]
		pos++
		t.TPL.Status = raw[pos]
		pos++
		t.TPL.ConfigWord = uint16(raw[pos]) | uint16(raw[pos+1])<<8
		pos += 2

	case isTPLShort(ci), isTPLCompact(ci):
		// Short header: no address fields, the DLL's own ID/manufacturer
		// apply. access-number + status + config-word still precede APL.
		const hdrLen = 1 + 1 + 2
		if pos+hdrLen > len(raw) {
			return pos, fmt.Errorf("telegram: truncated short TPL header at offset %d", pos)
		}
		t.TPL.ID = t.DLL.ID
		t.TPL.Manufacturer = t.DLL.Manufacturer
		t.TPL.Version = t.DLL.Version
		t.TPL.DeviceType = t.DLL.DeviceType
		t.TPL.AccessNumber = raw[pos]
		pos++
		t.TPL.Status = raw[pos]
		pos++
		t.TPL.ConfigWord = uint16(raw[pos]) | uint16(raw[pos+1])<<8
		pos += 2
		t.TPL.Compact = isTPLCompact(ci)

	default:
		return pos, fmt.Errorf("telegram: unknown TPL CI field 0x%02x", ci)
	}

	t.TPL.SecurityMode = securityModeFromConfigWord(t.TPL.ConfigWord)
	t.explain(raw, start, pos-start, "TPL")
	return pos, nil
}
