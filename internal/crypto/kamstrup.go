package crypto

import "fmt"

// DecryptKamstrupC1 implements the legacy Kamstrup "C1" cipher used by the
// Supercom587 family. It is structurally AES-CTR with a vendor-specific IV
// construction (manufacturer||id||version||type, zero-extended, with the
// access number folded into the final byte rather than repeated across the
// block as AES_CBC_IV does); documentation for this scheme is sparse
// outside captured reference telegrams, so this construction is treated as
// provisional (see DESIGN.md open question).
func DecryptKamstrupC1(key [16]byte, manufacturer uint16, id [4]byte, version, devType, accessNumber byte, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("crypto: empty ciphertext")
	}

	var iv [16]byte
	iv[0] = byte(manufacturer)
	iv[1] = byte(manufacturer >> 8)
	copy(iv[2:6], id[:])
	iv[6] = version
	iv[7] = devType
	iv[8] = accessNumber
	// bytes 9..15 stay zero: the block counter portion of the CTR nonce.

	return DecryptCTR(key, iv, ciphertext)
}
