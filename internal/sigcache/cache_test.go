package sigcache

import "testing"

func TestLookupMiss(t *testing.T) {
	c := New()
	if _, ok := c.Lookup(0x1234); ok {
		t.Error("Lookup() on empty cache returned ok = true")
	}
}

func TestStoreThenLookup(t *testing.T) {
	c := New()
	c.Store(0x1234, []byte{0x02, 0xFF})
	b, ok := c.Lookup(0x1234)
	if !ok {
		t.Fatal("Lookup() ok = false after Store()")
	}
	if len(b) != 2 || b[0] != 0x02 || b[1] != 0xFF {
		t.Errorf("Lookup() = %x, want 02ff", b)
	}
}

func TestStoreCopiesInput(t *testing.T) {
	c := New()
	src := []byte{0x01, 0x02}
	c.Store(0x1, src)
	src[0] = 0xFF
	b, _ := c.Lookup(0x1)
	if b[0] != 0x01 {
		t.Error("Store() did not copy its input; mutation leaked into the cache")
	}
}

func TestNewSeededContainsKnownSignatures(t *testing.T) {
	c := NewSeeded()
	if c.Len() < 2 {
		t.Fatalf("NewSeeded() Len() = %d, want >= 2", c.Len())
	}
	if _, ok := c.Lookup(0xa8ed); !ok {
		t.Error("NewSeeded() missing signature 0xa8ed")
	}
	if _, ok := c.Lookup(0xc412); !ok {
		t.Error("NewSeeded() missing signature 0xc412")
	}
}
