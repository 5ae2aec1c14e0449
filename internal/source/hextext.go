package source

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// HexText reads one frame per line of hex-encoded text, the format used by
// captured-telegram fixtures and `wmbusmeters decode` piped input.
type HexText struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewHexText wraps r (closed by Close if it implements io.Closer).
func NewHexText(r io.Reader) *HexText {
	h := &HexText{scanner: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		h.closer = c
	}
	return h
}

// Read returns the next non-blank, non-comment line decoded from hex.
// Lines beginning with '#' are treated as comments and skipped.
func (h *HexText) Read(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !h.scanner.Scan() {
			if err := h.scanner.Err(); err != nil {
				return nil, fmt.Errorf("source: hex text: %w", err)
			}
			return nil, io.EOF
		}

		line := strings.TrimSpace(h.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		b, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("source: hex text: invalid hex on line %q: %w", line, err)
		}
		return b, nil
	}
}

func (h *HexText) Close() error {
	if h.closer != nil {
		return h.closer.Close()
	}
	return nil
}
