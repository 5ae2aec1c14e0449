// Package sigcache caches the DIB/VIB header layout ("format signature")
// observed in a meter's full-frame telegrams, so that its subsequent
// compact-frame telegrams — which carry only the 2-byte signature and raw
// values — can be decoded without re-requesting a full frame.
package sigcache
