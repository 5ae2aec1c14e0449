package crypto

import (
	"bytes"
	"crypto/aes"
	"testing"
)

func TestDecryptCBCIVRejectsBadFiller(t *testing.T) {
	var key, iv [16]byte
	// Encrypt a block that does NOT start with the 2F2F filler.
	block, _ := aes.NewCipher(key[:])
	plain := make([]byte, 16)
	copy(plain, []byte("no filler here!!"))
	cipherText := make([]byte, 16)
	// hand-roll one CBC block: c = E(p xor iv)
	xored := xorBytes(plain, iv[:])
	block.Encrypt(cipherText, xored)

	if _, err := DecryptCBCIV(key, iv, cipherText); err == nil {
		t.Error("expected filler-check error, got nil")
	}
}

func TestDecryptCBCIVAcceptsFiller(t *testing.T) {
	var key, iv [16]byte
	block, _ := aes.NewCipher(key[:])
	plain := make([]byte, 16)
	plain[0], plain[1] = 0x2F, 0x2F
	copy(plain[2:], []byte("payload1234"))
	cipherText := make([]byte, 16)
	xored := xorBytes(plain, iv[:])
	block.Encrypt(cipherText, xored)

	got, err := DecryptCBCIV(key, iv, cipherText)
	if err != nil {
		t.Fatalf("DecryptCBCIV() error = %v", err)
	}
	if !bytes.Equal(got, plain[2:]) {
		t.Errorf("DecryptCBCIV() = %v, want %v", got, plain[2:])
	}
}

func TestDecryptCBCIVRejectsPartialBlock(t *testing.T) {
	var key, iv [16]byte
	if _, err := DecryptCBCIV(key, iv, make([]byte, 10)); err == nil {
		t.Error("expected error for non-block-aligned ciphertext")
	}
}

func TestCTRRoundTrip(t *testing.T) {
	var key, iv [16]byte
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(i * 2)
	}
	plain := []byte("0123456789ABCDEF")

	ct, err := DecryptCTR(key, iv, plain) // CTR encrypt == decrypt
	if err != nil {
		t.Fatalf("DecryptCTR() error = %v", err)
	}
	pt, err := DecryptCTR(key, iv, ct)
	if err != nil {
		t.Fatalf("DecryptCTR() error = %v", err)
	}
	if !bytes.Equal(pt, plain) {
		t.Errorf("CTR round trip = %v, want %v", pt, plain)
	}
}

func TestDecryptCTRCMACRejectsBadTag(t *testing.T) {
	var confKey, authKey, iv [16]byte
	header := []byte{0x01, 0x02}
	ciphertext := []byte("ABCDEFGHIJKLMNOP")
	badMac := []byte{0, 0, 0, 0}

	if _, err := DecryptCTRCMAC(confKey, authKey, iv, header, ciphertext, badMac); err == nil {
		t.Error("expected MAC verification failure, got nil")
	}
}

func TestDecryptCTRCMACAcceptsValidTag(t *testing.T) {
	var confKey, authKey, iv [16]byte
	header := []byte{0x01, 0x02}
	ciphertext := []byte("ABCDEFGHIJKLMNOP")

	full := CMAC(authKey[:], append(append([]byte{}, header...), ciphertext...))
	mac := full[:4]

	if _, err := DecryptCTRCMAC(confKey, authKey, iv, header, ciphertext, mac); err != nil {
		t.Errorf("DecryptCTRCMAC() error = %v, want nil", err)
	}
}

func TestCMACKnownTestVector(t *testing.T) {
	// RFC 4493 test vector: Mlen = 0 under the standard 128-bit test key.
	key := []byte{
		0x2b, 0x7e, 0x15, 0x16, 0x28, 0xae, 0xd2, 0xa6,
		0xab, 0xf7, 0x15, 0x88, 0x09, 0xcf, 0x4f, 0x3c,
	}
	want := []byte{
		0xbb, 0x1d, 0x69, 0x29, 0xe9, 0x59, 0x37, 0x28,
		0x7f, 0xa3, 0x7d, 0x12, 0x9b, 0x75, 0x67, 0x46,
	}

	got := CMAC(key, nil)
	if !bytes.Equal(got, want) {
		t.Errorf("CMAC(key, \"\") = %x, want %x", got, want)
	}
}

func TestDecryptKamstrupC1RejectsEmpty(t *testing.T) {
	var key [16]byte
	if _, err := DecryptKamstrupC1(key, 0, [4]byte{}, 0, 0, 0, nil); err == nil {
		t.Error("expected error for empty ciphertext")
	}
}
