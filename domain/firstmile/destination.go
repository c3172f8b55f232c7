package firstmile

import "strings"

// Destination codes
const (
	DestinationWest  = "SOC-W"
	DestinationNorth = "SOC-N"
	DestinationEast  = "SOC-E"
)

// DestinationCode pairs a fixed SOC code with its display label and the
// upper-case keywords that identify it in free text.
type DestinationCode struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Keywords []string `json:"-"`
}

// Destinations is checked in order; the first family with a matching
// keyword wins.
var Destinations = []DestinationCode{
	{
		Code:     DestinationWest,
		Label:    "SOC West",
		Keywords: []string{"SOC-W", "SOCW", "SOC W", "WEST", "ตะวันตก"},
	},
	{
		Code:     DestinationNorth,
		Label:    "SOC North",
		Keywords: []string{"SOC-N", "SOCN", "SOC N", "NORTH", "เหนือ"},
	},
	{
		Code:     DestinationEast,
		Label:    "SOC East",
		Keywords: []string{"SOC-E", "SOCE", "SOC E", "EAST", "ตะวันออก"},
	},
}

// ResolveDestination maps free text onto a destination code. Text that
// matches no family is returned with surrounding whitespace trimmed and its
// case kept, so callers never see padded custom codes. Whitespace-only input
// yields "", which makes the row invalid.
func ResolveDestination(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)
	for _, dest := range Destinations {
		for _, keyword := range dest.Keywords {
			if strings.Contains(upper, keyword) {
				return dest.Code
			}
		}
	}
	return trimmed
}

// IsKnownDestination reports whether code is one of the fixed SOC codes
func IsKnownDestination(code string) bool {
	_, ok := DestinationLabel(code)
	return ok
}

// DestinationLabel returns the display label for a fixed code
func DestinationLabel(code string) (string, bool) {
	for _, dest := range Destinations {
		if dest.Code == code {
			return dest.Label, true
		}
	}
	return "", false
}
