package meterkeys

import "testing"

func TestParseValidKeys(t *testing.T) {
	k, err := Parse("00112233445566778899AABBCCDDEEFF", "FFEEDDCCBBAA99887766554433221100", false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !k.HasAuthKey {
		t.Error("HasAuthKey = false, want true")
	}
	if !k.CanDecrypt() {
		t.Error("CanDecrypt() = false, want true")
	}
}

func TestParseSimulatedWithoutKey(t *testing.T) {
	k, err := Parse("", "", true)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if k.CanDecrypt() {
		t.Error("CanDecrypt() = true for simulated meter, want false")
	}
}

func TestParseMissingKeyNonSimulated(t *testing.T) {
	if _, err := Parse("", "", false); err == nil {
		t.Fatal("Parse() error = nil, want error for missing key on non-simulated meter")
	}
}

func TestParseWrongLength(t *testing.T) {
	if _, err := Parse("AABB", "", false); err == nil {
		t.Fatal("Parse() error = nil, want error for short key")
	}
}

func TestParseInvalidHex(t *testing.T) {
	if _, err := Parse("ZZ112233445566778899AABBCCDDEEFF", "", false); err == nil {
		t.Fatal("Parse() error = nil, want error for invalid hex")
	}
}
