package config

// MeterList represents the entire on-disk meter configuration file.
type MeterList struct {
	Version     int           `yaml:"version"`
	Meters      []*MeterEntry `yaml:"meters,omitempty"`
	Preferences *Preferences  `yaml:"preferences,omitempty"`
}

// MeterEntry describes one meter the daemon should recognize and decode.
type MeterEntry struct {
	Name    string `yaml:"name"`              // user-chosen nickname, e.g. "kitchen_water"
	Driver  string `yaml:"driver"`            // driver name, or "auto" to use the registry
	ID      string `yaml:"id"`                // wM-Bus address, 8 hex digits, "*" to match any
	Key     string `yaml:"key,omitempty"`     // confidentiality key, hex-encoded
	AuthKey string `yaml:"auth_key,omitempty"` // authentication key (mode 7 CMAC), hex-encoded

	// Shell is run (via internal/hooks.Run) after every accepted telegram
	// from this meter, with METER_* variables (internal/output.EnvVars) in
	// its environment.
	Shell string `yaml:"shell,omitempty"`

	// ExtraJSON is merged verbatim into this meter's JSON rendering
	// (internal/output.Update.ExtraJSON), e.g. a fixed location tag.
	ExtraJSON map[string]string `yaml:"extra_json,omitempty"`
}

// Preferences represents daemon-wide preferences.
type Preferences struct {
	AutoDiscoverBridges bool   `yaml:"auto_discover_bridges"` // enable mDNS discovery of networked bridges on startup
	DiscoverTimeout     int    `yaml:"discover_timeout"`      // mDNS discovery timeout in seconds
	LogLevel            string `yaml:"log_level,omitempty"`
}

// NewMeterList creates a MeterList with default preferences.
func NewMeterList() *MeterList {
	return &MeterList{
		Version: 1,
		Meters:  make([]*MeterEntry, 0),
		Preferences: &Preferences{
			AutoDiscoverBridges: false,
			DiscoverTimeout:     10,
		},
	}
}

// Find returns the entry with the given nickname, or nil.
func (m *MeterList) Find(name string) *MeterEntry {
	for _, e := range m.Meters {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Upsert adds or replaces the entry with the same nickname.
func (m *MeterList) Upsert(entry *MeterEntry) {
	for i, e := range m.Meters {
		if e.Name == entry.Name {
			m.Meters[i] = entry
			return
		}
	}
	m.Meters = append(m.Meters, entry)
}
