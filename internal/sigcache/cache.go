package sigcache

import (
	"encoding/hex"
	"sync"
)

// Cache maps a 16-bit format signature to the DIB/VIB header bytes it
// stands for. Safe for concurrent use by multiple telegram-processing
// goroutines.
type Cache struct {
	mu    sync.RWMutex
	store map[uint16][]byte
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{store: make(map[uint16][]byte)}
}

// Lookup returns the header bytes cached for sig, if any.
func (c *Cache) Lookup(sig uint16) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.store[sig]
	return b, ok
}

// Store records headerTemplate as the layout for sig, overwriting any
// previous entry.
func (c *Cache) Store(sig uint16, headerTemplate []byte) {
	cp := make([]byte, len(headerTemplate))
	copy(cp, headerTemplate)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[sig] = cp
}

// Len reports the number of cached signatures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// seed is a (signature, hex-encoded header template) pair known from deployed
// meter firmware, used to prime a Cache so the very first compact telegram
// from a freshly-discovered meter can be decoded without waiting for a full
// frame.
type seed struct {
	sig     uint16
	headers string
}

// knownSignatures lists the format signatures observed on Multical21 and
// compatible meters in the field.
var knownSignatures = []seed{
	{0xa8ed, "02FF2004134413615B6167"},
	{0xc412, "02FF20041392013BA1015B8101E7FF0F"},
}

// NewSeeded returns a Cache pre-populated with knownSignatures, decoded from
// their hex form. A malformed seed entry is a programming error and panics.
func NewSeeded() *Cache {
	c := New()
	for _, s := range knownSignatures {
		b, err := hex.DecodeString(s.headers)
		if err != nil {
			panic("sigcache: invalid built-in seed for signature " + hex.EncodeToString([]byte{byte(s.sig >> 8), byte(s.sig)}) + ": " + err.Error())
		}
		c.Store(s.sig, b)
	}
	return c
}
