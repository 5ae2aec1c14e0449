// Package source defines the TelegramSource interface and its adapters:
// how raw frame bytes reach the frame detector from a dongle, a hex text
// log, or a network feed. These are thin I/O adapters around the core
// decode pipeline, not part of it.
package source

import "context"

// TelegramSource yields raw frame bytes (post length-byte framing is the
// caller's job via internal/frame) as they arrive. Read blocks until at
// least one byte is available, ctx is cancelled, or the source is closed.
type TelegramSource interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}
