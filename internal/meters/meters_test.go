package meters

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/2007M4N/wmbusmeters/internal/dif"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q) error = %v", s, err)
	}
	return b
}

func TestMulticalDecodeTotalAndTarget(t *testing.T) {
	// total (storage 0) = 0413 F8180000 = 6.392 m3; target (storage 1) =
	// 4413 F4180000 = 6.388 m3.
	raw := mustHex(t, "0413F8180000"+"4413F4180000")
	records, _, err := dif.Parse(raw)
	if err != nil {
		t.Fatalf("dif.Parse() error = %v", err)
	}

	d, err := New("multical21", "kitchen", []string{"*"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := d.Decode(records, raw); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	total, ok := d.CommonState().Field("total")
	if !ok {
		t.Fatal("field 'total' not published")
	}
	if math.Abs(total.Value-6.392) > 1e-9 {
		t.Errorf("total = %v, want 6.392", total.Value)
	}

	target, ok := d.CommonState().Field("target")
	if !ok {
		t.Fatal("field 'target' not published")
	}
	if math.Abs(target.Value-6.388) > 1e-9 {
		t.Errorf("target = %v, want 6.388", target.Value)
	}
}

func TestMulticalDecodePublishesStatusText(t *testing.T) {
	raw := mustHex(t, "0413F8180000")
	records, _, err := dif.Parse(raw)
	if err != nil {
		t.Fatalf("dif.Parse() error = %v", err)
	}

	d, err := New("multical21", "kitchen", []string{"*"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.Decode(records, raw); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	status, ok := d.CommonState().Field("status_text")
	if !ok {
		t.Fatal("field 'status_text' not published")
	}
	if !status.IsText {
		t.Error("status_text field is not marked IsText")
	}
	if status.Text != "OK" {
		t.Errorf("status_text = %q, want %q", status.Text, "OK")
	}
}

func TestMulticalInfoCodesOK(t *testing.T) {
	_, status := decodeInfoCodes(0x0000)
	if status != "OK" {
		t.Errorf("status = %q, want OK", status)
	}
}

func TestMulticalInfoCodesDryAndLeak(t *testing.T) {
	_, status := decodeInfoCodes(0x0001 | 0x0004)
	if status != "DRY LEAK" {
		t.Errorf("status = %q, want %q", status, "DRY LEAK")
	}
}

func TestTimeBandTotalAndMonotonic(t *testing.T) {
	order := []string{
		"0 hours", "1-8 hours", "9-24 hours", "2-3 days",
		"4-7 days", "8-14 days", "15-21 days", "22-31 days",
	}
	for i := 0; i < 8; i++ {
		got := TimeBand(byte(i))
		if got != order[i] {
			t.Errorf("TimeBand(%d) = %q, want %q", i, got, order[i])
		}
	}
}

func TestOmnipowerDecode(t *testing.T) {
	// DIF 0x04 (32-bit int), VIF 0x03 (energy, 10^0 Wh), value 1000 Wh = 1 kWh.
	raw := mustHex(t, "0403E8030000")
	records, _, err := dif.Parse(raw)
	if err != nil {
		t.Fatalf("dif.Parse() error = %v", err)
	}

	d, err := New("omnipower", "meter", []string{"*"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.Decode(records, raw); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	total, ok := d.CommonState().Field("total")
	if !ok {
		t.Fatal("field 'total' not published")
	}
	if math.Abs(total.Value-1.0) > 1e-9 {
		t.Errorf("total = %v, want 1.0", total.Value)
	}
}

func TestApator162FixedOffsetVolume(t *testing.T) {
	payload := make([]byte, apator162VolumeOffset+4)
	// 10270000 LE = 0x00002710 = 10000 -> 10.000 m3 at scale 10^-3.
	copy(payload[apator162VolumeOffset:], []byte{0x10, 0x27, 0x00, 0x00})

	d, err := New("apator162", "meter", []string{"*"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	empty := dif.NewRecordMap()
	if err := d.Decode(empty, payload); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	total, ok := d.CommonState().Field("total")
	if !ok {
		t.Fatal("field 'total' not published")
	}
	if math.Abs(total.Value-10.0) > 1e-9 {
		t.Errorf("total = %v, want 10.0", total.Value)
	}
}

func TestSupercom587DefaultsToZeroWithoutVolumeRecord(t *testing.T) {
	d, err := New("supercom587", "meter", []string{"*"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	empty := dif.NewRecordMap()
	if err := d.Decode(empty, nil); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	total, ok := d.CommonState().Field("total")
	if !ok {
		t.Fatal("field 'total' not published")
	}
	if total.Value != 0.0 {
		t.Errorf("total = %v, want 0.0", total.Value)
	}
}

func TestMatchesWildcard(t *testing.T) {
	c := Common{IDMatches: []string{"*"}}
	if !c.Matches("12345678") {
		t.Error("Matches() with wildcard = false, want true")
	}
}

func TestMatchesExact(t *testing.T) {
	c := Common{IDMatches: []string{"12345678"}}
	if c.Matches("87654321") {
		t.Error("Matches() matched a different id")
	}
	if !c.Matches("12345678") {
		t.Error("Matches() did not match its own id")
	}
}
