package dif

// vifEntry maps a primary VIF byte (bit 7, the extension flag, already
// masked off) to the quantity it carries and the power-of-ten scale factor
// relative to the quantity's canonical unit.
type vifEntry struct {
	quantity ValueInformation
	scale    float64 // multiply the raw decoded number by this to reach the canonical unit
}

// classifyVIF decodes the primary VIF table ranges used by the deployed
// meter families this pipeline targets (EN 13757-3 §8.4.3).
func classifyVIF(vif byte) (vifEntry, bool) {
	v := vif & 0x7F

	switch {
	case v >= 0x00 && v <= 0x07:
		// Energy, Wh * 10^(n-3)
		n := int(v & 0x07)
		return vifEntry{VIEnergy, pow10(n-3) * 0.001}, true // Wh -> kWh canonical
	case v >= 0x10 && v <= 0x17:
		// Volume, m3 * 10^(n-6)
		n := int(v & 0x07)
		return vifEntry{VIVolume, pow10(n - 6)}, true
	case v >= 0x28 && v <= 0x2F:
		// Power, W * 10^(n-3)
		n := int(v & 0x07)
		return vifEntry{VIPower, pow10(n - 3)}, true
	case v >= 0x38 && v <= 0x3F:
		// Volume flow, m3/h * 10^(n-6)
		n := int(v & 0x07)
		return vifEntry{VIVolumeFlow, pow10(n - 6)}, true
	case v >= 0x58 && v <= 0x5B:
		// Flow temperature, C * 10^(n-3)
		n := int(v & 0x03)
		return vifEntry{VIFlowTemperature, pow10(n - 3)}, true
	case v >= 0x5C && v <= 0x5F:
		// External/return temperature, C * 10^(n-3)
		n := int(v & 0x03)
		return vifEntry{VIExternalTemperature, pow10(n - 3)}, true
	case v >= 0x60 && v <= 0x63:
		// Pressure, bar * 10^(n-3)
		n := int(v & 0x03)
		return vifEntry{VIPressure, pow10(n - 3)}, true
	default:
		return vifEntry{}, false
	}
}

func pow10(n int) float64 {
	result := 1.0
	if n >= 0 {
		for i := 0; i < n; i++ {
			result *= 10
		}
		return result
	}
	for i := 0; i < -n; i++ {
		result /= 10
	}
	return result
}
