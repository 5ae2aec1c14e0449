package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// IVFromHeader builds the 16-byte IV used by TPL security mode AES_CBC_IV:
// manufacturer(2) || id(4) || version(1) || type(1) || access-number(1),
// repeated to fill the block.
func IVFromHeader(manufacturer uint16, id [4]byte, version, devType, accessNumber byte) [16]byte {
	var seed [8]byte
	seed[0] = byte(manufacturer)
	seed[1] = byte(manufacturer >> 8)
	copy(seed[2:6], id[:])
	seed[6] = version
	seed[7] = devType
	// The access number is appended and the whole 9-byte seed repeated to
	// fill 16 bytes, matching the layout observed in captured telegrams.
	full := append(seed[:], accessNumber)
	var iv [16]byte
	for i := range iv {
		iv[i] = full[i%len(full)]
	}
	return iv
}

// filler is the two-byte prefix ("2F 2F") a correctly decrypted CBC payload
// must begin with.
var filler = []byte{0x2F, 0x2F}

// DecryptCBCIV decrypts ciphertext (whole AES blocks only) under key and iv
// and verifies the leading 0x2F 0x2F filler bytes. The filler bytes are
// stripped from the returned plaintext.
func DecryptCBCIV(key, iv [16]byte, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("crypto: ciphertext length %d is not a whole number of AES blocks", len(ciphertext))
	}
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("crypto: empty ciphertext")
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv[:])
	mode.CryptBlocks(plaintext, ciphertext)

	if len(plaintext) < 2 || !bytes.Equal(plaintext[:2], filler) {
		return nil, fmt.Errorf("crypto: CBC padding check failed, expected 2F2F prefix")
	}

	return plaintext[2:], nil
}
