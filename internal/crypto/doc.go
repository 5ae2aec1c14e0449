// Package crypto implements the symmetric cryptography needed to unwrap
// wM-Bus application payloads: AES-128 in CBC (TPL security mode 5), CTR
// (legacy Multical mode 1 and the mode-7 CTR+CMAC combination), and the
// Kamstrup C1 legacy variant used by Supercom587. No third-party AES/CMAC
// library appears anywhere in the example corpus, so these are built
// directly on the standard library's crypto/aes and crypto/cipher (see
// DESIGN.md for the standard-library justification).
package crypto
