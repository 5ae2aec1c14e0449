package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// IVFromSession builds the 16-byte CTR IV for legacy Multical mode 1 from
// the ELL session number and the DLL address, per the original vendor's
// scheme: address(8) || session-number(4) || counter(4, starts at zero and
// is incremented by the block cipher per block).
func IVFromSession(address [8]byte, sessionNumber uint32) [16]byte {
	var iv [16]byte
	copy(iv[0:8], address[:])
	iv[8] = byte(sessionNumber)
	iv[9] = byte(sessionNumber >> 8)
	iv[10] = byte(sessionNumber >> 16)
	iv[11] = byte(sessionNumber >> 24)
	// bytes 12..15 left at zero: the initial block counter.
	return iv
}

// DecryptCTR decrypts ciphertext of any length under key/iv in AES-CTR mode.
// Unlike CBC, CTR is a stream cipher and needs no block-count check, but the
// pipeline still only feeds it whole-block APL payloads per the wire format.
func DecryptCTR(key, iv [16]byte, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(block, iv[:])
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// DecryptCTRCMAC implements TPL security mode 7: AES-CTR confidentiality
// plus an AES-CMAC authentication tag over header||ciphertext that must
// verify before the plaintext is accepted. mac is the (possibly truncated)
// tag as transmitted in the AFL.
func DecryptCTRCMAC(confKey, authKey, iv [16]byte, header, ciphertext, mac []byte) ([]byte, error) {
	computed := CMAC(authKey[:], append(append([]byte{}, header...), ciphertext...))
	if len(mac) == 0 || len(mac) > len(computed) {
		return nil, fmt.Errorf("crypto: invalid MAC length %d", len(mac))
	}
	if !constantTimeEqual(computed[:len(mac)], mac) {
		return nil, fmt.Errorf("crypto: CMAC verification failed")
	}
	return DecryptCTR(confKey, iv, ciphertext)
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
