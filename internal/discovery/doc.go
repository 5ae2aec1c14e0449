// Package discovery provides mDNS-based discovery of networked wM-Bus
// bridges, such as an rtl_wmbus (or compatible SDR dongle) process exposing
// its decoded telegram stream over TCP.
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements of type "_wmbus._tcp"
//  3. Filters responses to bridges whose hostname matches the expected
//     "wmbus-bridge-<id>.local" pattern
//  4. Returns a list of discovered bridges after the timeout period
//
// # Usage Example
//
//	bridges, err := discovery.ScanForBridges(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range bridges {
//	    fmt.Printf("Found bridge %s at %s\n", b.ID, b.Addr())
//	}
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
