package source

import (
	"context"
	"fmt"
	"io"

	"github.com/2007M4N/wmbusmeters/internal/frame"
)

// Serial frames telegrams out of a raw byte stream from an opened serial
// device. It accepts any io.ReadWriteCloser so the caller controls how the
// device node is opened (baud rate, parity, and other termios settings are
// a platform-specific concern this package deliberately does not own).
type Serial struct {
	rwc io.ReadWriteCloser
	buf []byte
}

// NewSerial wraps an already-opened serial device.
func NewSerial(rwc io.ReadWriteCloser) *Serial {
	return &Serial{rwc: rwc}
}

func (s *Serial) Read(ctx context.Context) ([]byte, error) {
	for {
		outcome := frame.Detect(s.buf)
		switch outcome.Result {
		case frame.Full:
			payload := s.buf[outcome.PayloadOffset : outcome.PayloadOffset+outcome.PayloadLength]
			out := make([]byte, len(payload))
			copy(out, payload)
			s.buf = s.buf[outcome.Length:]
			return out, nil
		case frame.Error:
			if len(s.buf) > 0 {
				s.buf = s.buf[1:]
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunk := make([]byte, 256)
		n, err := s.rwc.Read(chunk)
		if err != nil {
			return nil, fmt.Errorf("source: serial read: %w", err)
		}
		s.buf = append(s.buf, chunk[:n]...)
	}
}

func (s *Serial) Close() error {
	return s.rwc.Close()
}
