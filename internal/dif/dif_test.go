package dif

import (
	"encoding/hex"
	"math"
	"testing"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q) error = %v", s, err)
	}
	return b
}

func TestDIFLengthCodes(t *testing.T) {
	tests := []struct {
		code  byte
		bytes int
		enc   Encoding
	}{
		{0, 0, EncNone},
		{1, 1, EncInt},
		{2, 2, EncInt},
		{3, 3, EncInt},
		{4, 4, EncInt},
		{5, 4, EncReal32},
		{6, 6, EncInt},
		{7, 8, EncInt},
		{9, 1, EncBCD},
		{10, 2, EncBCD},
		{11, 3, EncBCD},
		{12, 4, EncBCD},
		{14, 6, EncBCD},
	}
	for _, tt := range tests {
		lc := lengthFor(tt.code)
		if lc.bytes != tt.bytes || lc.encoding != tt.enc {
			t.Errorf("lengthFor(%d) = {%d %v}, want {%d %v}", tt.code, lc.bytes, lc.encoding, tt.bytes, tt.enc)
		}
	}
}

func TestParseSimpleVolumeRecord(t *testing.T) {
	// DIF 0x04 (32-bit int, instantaneous, storage 0), VIF 0x13 (volume,
	// 10^-3 m3), value bytes 70 18 00 00 LE = 0x00001870 = 6256 litres.
	raw := mustDecode(t, "041370180000")

	rm, remainder, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if remainder != nil {
		t.Errorf("unexpected remainder %x", remainder)
	}

	key, ok := Find(rm, VIVolume, AnyStorageNr)
	if !ok {
		t.Fatal("Find(VIVolume) not found")
	}
	val, err := AsDouble(rm, key)
	if err != nil {
		t.Fatalf("AsDouble() error = %v", err)
	}

	want := 6.256
	if math.Abs(val-want) > 1e-9 {
		t.Errorf("volume = %v, want %v", val, want)
	}
}

func TestParseStopsAtManufacturerSpecific(t *testing.T) {
	raw := mustDecode(t, "0413701800000FAABBCC")
	rm, remainder, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rm.Records()) != 1 {
		t.Fatalf("len(Records()) = %d, want 1", len(rm.Records()))
	}
	if string(remainder) != "\xaa\xbb\xcc" {
		t.Errorf("remainder = %x, want aabbcc", remainder)
	}
}

func TestParseSkipsFillerBytes(t *testing.T) {
	raw := mustDecode(t, "2F2F041370180000")
	rm, _, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rm.Records()) != 1 {
		t.Errorf("len(Records()) = %d, want 1", len(rm.Records()))
	}
}

func TestParseCompactMatchesLongFrameFields(t *testing.T) {
	header := mustDecode(t, "0413") // DIF 32-bit int, VIF volume
	value := mustDecode(t, "70180000")

	longFrame := append(append([]byte{}, header...), value...)
	rmLong, _, err := Parse(longFrame)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rmCompact, err := ParseCompact(value, header)
	if err != nil {
		t.Fatalf("ParseCompact() error = %v", err)
	}

	keyLong, _ := Find(rmLong, VIVolume, AnyStorageNr)
	keyCompact, _ := Find(rmCompact, VIVolume, AnyStorageNr)

	vLong, _ := AsDouble(rmLong, keyLong)
	vCompact, _ := AsDouble(rmCompact, keyCompact)

	if vLong != vCompact {
		t.Errorf("compact frame value %v != long frame value %v", vCompact, vLong)
	}
}

func TestFindTieBreakLowestStorageNumber(t *testing.T) {
	// Two volume records, storage 1 inserted before storage 0; Find must
	// prefer the lower storage number regardless of insertion order.
	rec1 := mustDecode(t, "4413") // DIF 0x44 = 0x04 | 0x40 -> storage 1
	rec0 := mustDecode(t, "0413") // DIF 0x04 -> storage 0

	raw := append(append(append([]byte{}, rec1...), mustDecode(t, "70180000")...),
		append(rec0, mustDecode(t, "AA180000")...)...)

	rm, _, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	key, ok := Find(rm, VIVolume, AnyStorageNr)
	if !ok {
		t.Fatal("Find() not found")
	}
	rec, _ := rm.Get(key)
	if rec.StorageNr != 0 {
		t.Errorf("Find() picked storage number %d, want 0 (lowest)", rec.StorageNr)
	}
}

func TestFindRespectsRequestedStorageNumber(t *testing.T) {
	rec1 := mustDecode(t, "4413")
	rec0 := mustDecode(t, "0413")

	raw := append(append(append([]byte{}, rec0...), mustDecode(t, "AA180000")...),
		append(rec1, mustDecode(t, "70180000")...)...)

	rm, _, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	key, ok := Find(rm, VIVolume, 1)
	if !ok {
		t.Fatal("Find(storage=1) not found")
	}
	rec, _ := rm.Get(key)
	if rec.StorageNr != 1 {
		t.Errorf("Find(storage=1) returned storage %d", rec.StorageNr)
	}
}

func TestDecodeBCD(t *testing.T) {
	// BCD bytes 0x92 0x01 LE -> digits "0192" -> 192.
	got := decodeBCD([]byte{0x92, 0x01})
	if got != 192 {
		t.Errorf("decodeBCD() = %v, want 192", got)
	}
}

func TestDecodeLEIntSignExtension(t *testing.T) {
	// Single byte 0xFF is -1 as a signed 8-bit int.
	got := decodeLEInt([]byte{0xFF})
	if got != -1 {
		t.Errorf("decodeLEInt({0xFF}) = %v, want -1", got)
	}
}

func TestParseReal32Record(t *testing.T) {
	// DIF 0x05 (Real32, instantaneous), VIF 0x13 (volume, scale 10^-3),
	// IEEE-754 bytes for 1.5 little-endian: 00 00 C0 3F.
	raw := mustDecode(t, "05130000C03F")
	rm, _, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	key, ok := Find(rm, VIVolume, AnyStorageNr)
	if !ok {
		t.Fatal("Find(VIVolume) not found")
	}
	val, err := AsDouble(rm, key)
	if err != nil {
		t.Fatalf("AsDouble() error = %v", err)
	}
	want := 1.5 * 0.001
	if math.Abs(val-want) > 1e-9 {
		t.Errorf("volume = %v, want %v", val, want)
	}
}

func TestParseRejectsTruncatedHeader(t *testing.T) {
	raw := mustDecode(t, "04") // DIF present but VIF missing
	_, _, err := Parse(raw)
	if err == nil {
		t.Fatal("Parse() error = nil, want truncated-header error")
	}
}
