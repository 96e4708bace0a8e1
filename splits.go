package fitsplits

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultSplitDistance is the split length used when none is supplied, in meters.
const DefaultSplitDistance = 1000.0

// ErrInvalidSplitDistance is returned for split distances that are not positive finite numbers.
var ErrInvalidSplitDistance = errors.New("split distance must be a positive number of meters")

// Sample is one record message from an activity recording.
// A nil field means the decoder did not supply a value for it.
type Sample struct {
	Timestamp        *time.Time
	Distance         *float64 // cumulative meters from activity start
	Speed            *float64 // m/s
	EnhancedSpeed    *float64 // m/s
	HeartRate        *float64 // bpm
	Cadence          *float64 // steps or revolutions per minute
	Altitude         *float64 // m
	EnhancedAltitude *float64 // m
}

// Split is the aggregate for one distance segment of an activity.
// Absent metrics are nil and encode as JSON null.
type Split struct {
	Split       int      `json:"split"`
	Distance    float64  `json:"distance"`
	ElapsedTime string   `json:"elapsed_time"`
	MovingTime  string   `json:"moving_time"`
	AvgSpeed    *float64 `json:"avg_speed"`
	MaxSpeed    *float64 `json:"max_speed"`
	AvgHR       *int     `json:"avg_hr"`
	MaxHR       *int     `json:"max_hr"`
	AvgCadence  *int     `json:"avg_cadence"`
	MaxCadence  *int     `json:"max_cadence"`
	Ascent      *float64 `json:"ascent"`
	Descent     *float64 `json:"descent"`
}

// Result is the document produced for one activity.
type Result struct {
	Splits []Split `json:"splits"`
}

// Extract filters samples without a distance and segments the remainder.
func Extract(samples []Sample, splitDistance float64) (*Result, error) {
	splits, err := Segment(FilterRecords(samples), splitDistance)
	if err != nil {
		return nil, err
	}
	return &Result{Splits: splits}, nil
}

// FilterRecords returns the samples that carry a distance, preserving order.
func FilterRecords(samples []Sample) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Distance == nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Segment partitions samples into consecutive groups by cumulative distance and
// aggregates each group into a Split.
//
// A group closes once it covers at least splitDistance meters, or at the last
// sample. The sample that closes a group also seeds the next one. Groups with
// fewer than two timestamped samples are dropped without consuming a split
// number. Samples without a distance are skipped.
func Segment(samples []Sample, splitDistance float64) ([]Split, error) {
	if err := ValidateSplitDistance(splitDistance); err != nil {
		return nil, err
	}
	samples = FilterRecords(samples)

	splits := make([]Split, 0)
	if len(samples) == 0 {
		return splits, nil
	}

	var (
		number = 1
		start  = *samples[0].Distance
		group  = make([]Sample, 0, 64)
		last   = len(samples) - 1
	)
	for i, s := range samples {
		group = append(group, s)
		covered := *s.Distance - start
		if covered < splitDistance && i != last {
			continue
		}

		if split, ok := ComputeSplit(group, number, covered); ok {
			splits = append(splits, split)
			number++
		}

		group = append(group[:0], s)
		start = *s.Distance
	}
	return splits, nil
}

// ValidateSplitDistance rejects zero, negative, and non-finite split distances.
func ValidateSplitDistance(meters float64) error {
	if !isFinite(meters) || meters <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidSplitDistance, meters)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
