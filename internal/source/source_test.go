package source

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
)

func TestHexTextReadsLinesSkippingCommentsAndBlanks(t *testing.T) {
	r := strings.NewReader("# comment\n\n0413701800\nAABBCC\n")
	h := NewHexText(r)

	b, err := h.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(b) != "\x04\x13\x70\x18\x00" {
		t.Errorf("Read() = %x, want 0413701800", b)
	}

	b, err = h.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(b) != "\xaa\xbb\xcc" {
		t.Errorf("Read() = %x, want aabbcc", b)
	}
}

func TestHexTextReturnsEOFAtEnd(t *testing.T) {
	h := NewHexText(strings.NewReader(""))
	if _, err := h.Read(context.Background()); err != io.EOF {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
}

func TestHexTextInvalidHexIsError(t *testing.T) {
	h := NewHexText(strings.NewReader("ZZ\n"))
	if _, err := h.Read(context.Background()); err == nil {
		t.Error("Read() error = nil, want error for invalid hex")
	}
}

// TestTCPReadStripsLFieldByte guards against a one-byte shift bug: the
// frame's L-field byte must not be included in the payload handed to the
// telegram parser, which expects raw[0] to be the DLL Control byte.
func TestTCPReadStripsLFieldByte(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	payload := []byte{0x44, 0x93, 0x15, 0x78, 0x56, 0x34, 0x12, 0x01, 0x02}
	frameBytes := append([]byte{byte(len(payload))}, payload...)

	go func() {
		_, _ = serverConn.Write(frameBytes)
	}()

	src := &TCP{conn: clientConn}
	got, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Read() = %x, want %x (L-field byte must be stripped)", got, payload)
	}
}
