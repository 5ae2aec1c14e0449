package dif

// lengthCode describes the data layout selected by the low nibble of a DIF
// byte, per EN 13757-3.
type lengthCode struct {
	bytes    int
	encoding Encoding
	variable bool // LVAR: the true length is given by the following byte
}

var lengthTable = [16]lengthCode{
	0:  {0, EncNone, false},
	1:  {1, EncInt, false},
	2:  {2, EncInt, false},
	3:  {3, EncInt, false},
	4:  {4, EncInt, false},
	5:  {4, EncReal32, false},
	6:  {6, EncInt, false},
	7:  {8, EncInt, false},
	8:  {0, EncSelection, false},
	9:  {1, EncBCD, false},
	10: {2, EncBCD, false},
	11: {3, EncBCD, false},
	12: {4, EncBCD, false},
	13: {0, EncVariable, true},
	14: {6, EncBCD, false},
	15: {0, EncSelection, false}, // special function, handled by the caller
}

// lengthFor returns the byte count and encoding for a DIF length-code
// nibble (0-15). For the LVAR code (13) the caller must additionally read
// the length byte from the stream.
func lengthFor(code byte) lengthCode {
	return lengthTable[code&0x0F]
}

// functionToType maps the DIF function field (bits 4-5) to a measurement type.
func functionToType(bits byte) MeasurementType {
	switch bits & 0x03 {
	case 0:
		return Instantaneous
	case 1:
		return Maximum
	case 2:
		return Minimum
	default:
		return AtError
	}
}
