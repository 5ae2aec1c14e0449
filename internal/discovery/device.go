package discovery

import (
	"fmt"
	"time"
)

// Bridge represents a discovered networked wM-Bus bridge, e.g. an rtl_wmbus
// process streaming decoded (or raw) telegrams over TCP.
type Bridge struct {
	// ID is the bridge identifier taken from its hostname
	// (e.g. "315260240" from "wmbus-bridge-315260240.local").
	ID string

	// Hostname is the mDNS hostname.
	Hostname string

	// IP is the bridge's IPv4 (preferred) or IPv6 address.
	IP string

	// Port is the TCP port the bridge streams telegrams on.
	Port int

	// Metadata holds additional mDNS TXT record data (e.g. "mode=T1C1").
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered.
	DiscoveredAt time.Time
}

// String returns a human-readable representation of the bridge.
func (b *Bridge) String() string {
	return fmt.Sprintf("wM-Bus bridge %s (%s) at %s:%d", b.ID, b.Hostname, b.IP, b.Port)
}

// Addr returns the "host:port" dial address for the bridge.
func (b *Bridge) Addr() string {
	return fmt.Sprintf("%s:%d", b.IP, b.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found.
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
