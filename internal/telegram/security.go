package telegram

// SecurityMode is the 5-bit TPL security mode extracted from the
// configuration word (bits 10..14).
type SecurityMode int

const (
	SecurityModeNone         SecurityMode = 0
	SecurityModeAESCTRLegacy SecurityMode = 1 // legacy Multical, mode 1
	SecurityModeAESCBCIV     SecurityMode = 5
	SecurityModeAESCTRCMAC   SecurityMode = 7
	// SecurityModeKamstrupC1 is not a value assigned by EN 13757-4; it is a
	// local marker this pipeline sets when a meter's driver declares the
	// legacy Kamstrup cipher (Supercom587 family), since the wire does not
	// distinguish it from plain AES-CTR at the TPL layer. See DESIGN.md.
	SecurityModeKamstrupC1 SecurityMode = -1
)

func (m SecurityMode) String() string {
	switch m {
	case SecurityModeNone:
		return "none"
	case SecurityModeAESCTRLegacy:
		return "aes-ctr-legacy"
	case SecurityModeAESCBCIV:
		return "aes-cbc-iv"
	case SecurityModeAESCTRCMAC:
		return "aes-ctr-cmac"
	case SecurityModeKamstrupC1:
		return "kamstrup-c1"
	default:
		return "unknown"
	}
}

// Encrypted reports whether the APL must be decrypted before record parsing.
func (m SecurityMode) Encrypted() bool {
	return m != SecurityModeNone
}

// securityModeFromConfigWord extracts bits 10..14 of the TPL configuration word.
func securityModeFromConfigWord(word uint16) SecurityMode {
	return SecurityMode((word >> 10) & 0x1F)
}
