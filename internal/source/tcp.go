package source

import (
	"context"
	"fmt"
	"net"

	"github.com/2007M4N/wmbusmeters/internal/frame"
)

// TCP reads frames from a length-prefixed stream carried over a TCP
// connection (the protocol used by network-attached wM-Bus bridges), using
// the same L-field framing the frame detector understands.
type TCP struct {
	conn net.Conn
	buf  []byte
}

// DialTCP connects to addr and returns a ready TelegramSource.
func DialTCP(ctx context.Context, addr string) (*TCP, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("source: tcp dial %s: %w", addr, err)
	}
	return &TCP{conn: conn}, nil
}

// Read accumulates bytes from the connection until frame.Detect reports a
// complete frame, then returns exactly that frame and retains any
// remainder for the next call.
func (t *TCP) Read(ctx context.Context) ([]byte, error) {
	for {
		outcome := frame.Detect(t.buf)
		switch outcome.Result {
		case frame.Full:
			payload := t.buf[outcome.PayloadOffset : outcome.PayloadOffset+outcome.PayloadLength]
			out := make([]byte, len(payload))
			copy(out, payload)
			t.buf = t.buf[outcome.Length:]
			return out, nil
		case frame.Error:
			// Resync: drop the bad length byte and keep reading.
			if len(t.buf) > 0 {
				t.buf = t.buf[1:]
			}
		}

		chunk := make([]byte, 4096)
		if deadline, ok := ctx.Deadline(); ok {
			_ = t.conn.SetReadDeadline(deadline)
		}
		n, err := t.conn.Read(chunk)
		if err != nil {
			return nil, fmt.Errorf("source: tcp read: %w", err)
		}
		t.buf = append(t.buf, chunk[:n]...)
	}
}

func (t *TCP) Close() error {
	return t.conn.Close()
}
