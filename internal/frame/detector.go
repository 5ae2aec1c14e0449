// Package frame implements the wM-Bus frame detector: given a growing byte
// buffer from a dongle, it decides whether a complete frame is present yet.
package frame

import "fmt"

// Result classifies the outcome of a detection attempt.
type Result int

const (
	// Partial means more bytes are needed before a verdict can be reached.
	Partial Result = iota
	// Full means a complete frame is present in the buffer.
	Full
	// Error means the buffer cannot begin a legal frame; the caller must
	// discard it (e.g. resync past a stray byte).
	Error
)

func (r Result) String() string {
	switch r {
	case Partial:
		return "Partial"
	case Full:
		return "Full"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// minLength is the smallest legal value of the L-field: the DLL's C, M and A
// fields (1+2+6 bytes) plus at least one CI byte.
const minLength = 9

// Outcome is the result of Detect.
type Outcome struct {
	Result Result

	// Length is the total frame length in bytes (L-field value + 1),
	// valid only when Result == Full.
	Length int

	// PayloadOffset is the index of the first byte after the L-field.
	PayloadOffset int

	// PayloadLength is the number of bytes after the L-field that belong
	// to the frame (equal to the L-field value).
	PayloadLength int

	// Reason explains an Error outcome.
	Reason string
}

// Detect inspects buf, which may be a prefix of a longer stream still being
// received, and reports whether it holds a complete wM-Bus frame.
//
// The first byte is the L-field: it declares the number of bytes following
// it that belong to this frame. A full frame therefore spans L+1 bytes.
// Detect is a pure function of its input — calling it again on the
// remainder after consuming a Full frame yields the same verdict as calling
// it directly on that remainder.
func Detect(buf []byte) Outcome {
	if len(buf) == 0 {
		return Outcome{Result: Partial}
	}

	l := int(buf[0])
	if l < minLength {
		return Outcome{Result: Error, Reason: fmt.Sprintf("length field %d below minimum frame size %d", l, minLength)}
	}

	total := l + 1
	if len(buf) < total {
		return Outcome{Result: Partial}
	}

	return Outcome{
		Result:        Full,
		Length:        total,
		PayloadOffset: 1,
		PayloadLength: l,
	}
}
