package fitsplits

import (
	"fmt"
	"strconv"
	"strings"
)

// MetersPerMile is the split distance used for mile splits.
const MetersPerMile = 1609.34

var splitPresets = map[string]float64{
	"km":         DefaultSplitDistance,
	"kilometer":  DefaultSplitDistance,
	"kilometers": DefaultSplitDistance,
	"mi":         MetersPerMile,
	"mile":       MetersPerMile,
	"miles":      MetersPerMile,
}

// ParseSplitDistance parses a split distance given either as meters or as a
// unit name such as "km" or "mi". An empty string yields DefaultSplitDistance.
func ParseSplitDistance(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DefaultSplitDistance, nil
	}
	if meters, ok := splitPresets[s]; ok {
		return meters, nil
	}
	meters, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSplitDistance, raw)
	}
	if err := ValidateSplitDistance(meters); err != nil {
		return 0, err
	}
	return meters, nil
}
