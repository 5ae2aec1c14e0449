package crypto

import "crypto/aes"

// CMAC computes the AES-CMAC (RFC 4493) of msg under key, returning a full
// 16-byte tag; callers truncate as the wire format requires.
func CMAC(key, msg []byte) []byte {
	block, err := aes.NewCipher(key)
	if err != nil {
		// key length is validated by callers (always 16 bytes in this
		// pipeline); a failure here would be a programming error.
		panic(err)
	}

	k1, k2 := subkeys(block)

	blockSize := aes.BlockSize
	var mLast []byte

	if len(msg) == 0 || len(msg)%blockSize != 0 {
		mLast = padBlock(lastPartialBlock(msg, blockSize), blockSize)
		mLast = xorBytes(mLast, k2)
	} else {
		mLast = xorBytes(msg[len(msg)-blockSize:], k1)
	}

	x := make([]byte, blockSize)
	nBlocks := len(msg) / blockSize
	if len(msg) == 0 || len(msg)%blockSize != 0 {
		// number of full blocks preceding the padded last block
	} else {
		nBlocks--
	}

	for i := 0; i < nBlocks; i++ {
		y := xorBytes(x, msg[i*blockSize:(i+1)*blockSize])
		block.Encrypt(x, y)
	}

	y := xorBytes(x, mLast)
	tag := make([]byte, blockSize)
	block.Encrypt(tag, y)
	return tag
}

func lastPartialBlock(msg []byte, blockSize int) []byte {
	full := (len(msg) / blockSize) * blockSize
	return msg[full:]
}

func padBlock(b []byte, blockSize int) []byte {
	padded := make([]byte, blockSize)
	copy(padded, b)
	padded[len(b)] = 0x80
	return padded
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// subkeys derives the two RFC 4493 subkeys K1, K2 from the cipher's
// zero-key encryption.
func subkeys(block interface{ Encrypt(dst, src []byte) }) (k1, k2 []byte) {
	const rb = 0x87
	zero := make([]byte, 16)
	l := make([]byte, 16)
	block.Encrypt(l, zero)

	k1 = shiftLeftOne(l)
	if l[0]&0x80 != 0 {
		k1[15] ^= rb
	}

	k2 = shiftLeftOne(k1)
	if k1[0]&0x80 != 0 {
		k2[15] ^= rb
	}

	return k1, k2
}

func shiftLeftOne(in []byte) []byte {
	out := make([]byte, len(in))
	var carry byte
	for i := len(in) - 1; i >= 0; i-- {
		out[i] = (in[i] << 1) | carry
		carry = (in[i] & 0x80) >> 7
	}
	return out
}
