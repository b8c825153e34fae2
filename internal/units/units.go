// Package units provides shared constants and helpers for length units used
// by roughness columns ("Sa (µm)") and scan coordinates.
package units

import "strings"

// Unit constants
const (
	Nanometre  = "nm"
	Micrometre = "µm"
	Millimetre = "mm"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Nanometre, Micrometre, Millimetre}

// perMetre maps a unit to how many of it fit in one metre.
var perMetre = map[string]float64{
	Nanometre:  1e9,
	Micrometre: 1e6,
	Millimetre: 1e3,
}

// Normalize maps the spellings seen in instrument exports and spreadsheets
// onto the unit constants. Unknown spellings are returned trimmed.
func Normalize(unit string) string {
	u := strings.TrimSpace(unit)
	switch strings.ToLower(u) {
	case "um", "µm", "μm", "micron", "microns":
		return Micrometre
	case "nm":
		return Nanometre
	case "mm":
		return Millimetre
	}
	return u
}

// IsValid checks if the given unit, after normalisation, is a known length unit
func IsValid(unit string) bool {
	_, ok := perMetre[Normalize(unit)]
	return ok
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertLength converts v from one length unit to another.
// Unknown units leave the value unchanged.
func ConvertLength(v float64, from, to string) float64 {
	f, okFrom := perMetre[Normalize(from)]
	g, okTo := perMetre[Normalize(to)]
	if !okFrom || !okTo {
		return v
	}
	return v / f * g
}

// StripSuffix splits a column header such as "Sa (µm)" or "Sz [um]" into its
// bare name and normalised unit. Headers without a unit return an empty unit.
func StripSuffix(header string) (name, unit string) {
	h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		open := strings.Index(h, pair[0])
		if open < 0 {
			continue
		}
		end := strings.LastIndex(h, pair[1])
		if end < open {
			end = len(h)
		}
		return strings.TrimSpace(h[:open]), Normalize(h[open+1 : end])
	}
	return h, ""
}

// Label formats a column header from a statistic name and unit.
func Label(name, unit string) string {
	if unit == "" {
		return name
	}
	return name + " (" + unit + ")"
}
