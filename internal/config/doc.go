// Package config manages the on-disk meter list and daemon preferences for
// wmbusmeters.
//
// The meter list is a YAML file naming each meter the daemon should decode
// telegrams for: a nickname, the driver to use (or "auto" to consult the
// driver registry), the wM-Bus address/ID to match, and the AES keys needed
// to decrypt its telegrams. It follows the same platform-appropriate storage
// convention and atomic-write discipline as the rest of the ambient stack:
//
//   - Linux: $XDG_CONFIG_HOME/wmbusmeters/meters.yaml or $HOME/.config/...
//   - macOS: $HOME/.config/wmbusmeters/meters.yaml
//   - Windows: %LOCALAPPDATA%\wmbusmeters\meters.yaml
//
// Keys are stored as hex strings in this file; nothing in this package ever
// logs a key value.
package config
