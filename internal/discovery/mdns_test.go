package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
	}{
		{
			name: "valid bridge with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-315260240.local",
				Port:     4444,
				AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
				Text:     []string{"mode=T1C1", "fw=1.2"},
			},
			wantNil:  false,
			wantID:   "315260240",
			wantIP:   "192.168.4.16",
			wantPort: 4444,
		},
		{
			name: "valid bridge without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-abc123.local",
				Port:     4444,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Text:     []string{},
			},
			wantNil:  false,
			wantID:   "abc123",
			wantIP:   "10.0.0.5",
			wantPort: 4444,
		},
		{
			name: "no port specified defaults to DefaultPort",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-111111111.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantNil:  false,
			wantID:   "111111111",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name: "non-bridge hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "someotherdevice.local",
				Port:     4444,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "",
				Port:     4444,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-315260240.local",
				Port:     4444,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only bridge",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-222222222.local",
				Port:     4444,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil:  false,
			wantID:   "222222222",
			wantIP:   "fe80::1",
			wantPort: 4444,
		},
		{
			name: "both IPv4 and IPv6 prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "wmbus-bridge-333333333.local",
				Port:     4444,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantNil:  false,
			wantID:   "333333333",
			wantIP:   "192.168.1.50",
			wantPort: 4444,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}

			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil bridge")
			}

			if bridge.ID != tt.wantID {
				t.Errorf("bridge.ID = %v, want %v", bridge.ID, tt.wantID)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %v, want %v", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %v, want %v", bridge.Port, tt.wantPort)
			}
			if bridge.Hostname != tt.entry.HostName {
				t.Errorf("bridge.Hostname = %v, want %v", bridge.Hostname, tt.entry.HostName)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "wmbus-bridge-315260240.local",
		Port:     4444,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"mode=T1C1", "fw=1.2", "flag", "note=x"},
	}

	bridge := scanner.parseServiceEntry(entry)
	if bridge == nil {
		t.Fatal("parseServiceEntry() = nil, want bridge")
	}

	expectedMetadata := map[string]string{
		"mode": "T1C1",
		"fw":   "1.2",
		"flag": "",
		"note": "x",
	}

	if len(bridge.Metadata) != len(expectedMetadata) {
		t.Errorf("bridge.Metadata has %d entries, want %d", len(bridge.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := bridge.Metadata[key]; !ok {
			t.Errorf("bridge.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("bridge.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestIDPattern(t *testing.T) {
	tests := []struct {
		hostname    string
		shouldMatch bool
		id          string
	}{
		{"wmbus-bridge-315260240.local", true, "315260240"},
		{"wmbus-bridge-315260240.local.", true, "315260240"},
		{"wmbus-bridge-abc123.local", true, "abc123"},
		{"wmbus-bridge-1.local", true, "1"},
		{"wmbus-Bridge-1.local", false, ""}, // wrong case
		{"wmbus-bridge-.local", false, ""},  // no id
		{"somedevice.local", false, ""},     // wrong prefix
		{"wmbus-bridge-1", false, ""},       // missing .local
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			matches := idPattern.FindStringSubmatch(tt.hostname)

			if tt.shouldMatch {
				if matches == nil || len(matches) < 2 {
					t.Errorf("idPattern did not match %q", tt.hostname)
				} else if matches[1] != tt.id {
					t.Errorf("idPattern matched %q with id %q, want %q", tt.hostname, matches[1], tt.id)
				}
			} else {
				if matches != nil {
					t.Errorf("idPattern matched %q, want no match", tt.hostname)
				}
			}
		})
	}
}
