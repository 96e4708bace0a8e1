package fitsplits

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeSplit aggregates one group of samples into a Split numbered number.
// distance is the measured distance the group covered. It reports false when
// fewer than two samples carry a timestamp, in which case no split exists.
func ComputeSplit(group []Sample, number int, distance float64) (Split, bool) {
	first, last, ok := timestampBounds(group)
	if !ok {
		return Split{}, false
	}
	elapsedSeconds := last.Sub(first).Seconds()
	elapsed := FormatElapsed(elapsedSeconds)

	var (
		speeds   = make([]float64, 0, len(group))
		hrs      = make([]float64, 0, len(group))
		cadences = make([]float64, 0, len(group))
	)
	for _, s := range group {
		if v, ok := firstNonZero(s.EnhancedSpeed, s.Speed); ok && positiveReading(v) {
			speeds = append(speeds, v)
		}
		if s.HeartRate != nil && positiveReading(*s.HeartRate) {
			hrs = append(hrs, *s.HeartRate)
		}
		if s.Cadence != nil && positiveReading(*s.Cadence) {
			cadences = append(cadences, *s.Cadence)
		}
	}

	split := Split{
		Split:       number,
		Distance:    distance,
		ElapsedTime: elapsed,
		MovingTime:  elapsed,
		AvgHR:       roundedMean(hrs),
		MaxHR:       roundedMax(hrs),
		AvgCadence:  roundedMean(cadences),
		MaxCadence:  roundedMax(cadences),
	}

	if len(speeds) > 0 {
		split.AvgSpeed = finiteOrNil(stat.Mean(speeds, nil))
		split.MaxSpeed = finiteOrNil(floats.Max(speeds))
	} else if distance > 0 && elapsedSeconds > 0 {
		split.AvgSpeed = finiteOrNil(distance / elapsedSeconds)
	}

	split.Ascent, split.Descent = elevationChange(altitudeSeries(group))
	return split, true
}

// FormatElapsed renders seconds as HH:MM:SS, truncating each component toward
// zero. Negative durations keep a leading minus sign.
func FormatElapsed(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	whole := int64(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, whole/3600, (whole%3600)/60, whole%60)
}

func timestampBounds(group []Sample) (time.Time, time.Time, bool) {
	var (
		first, last time.Time
		count       int
	)
	for _, s := range group {
		if s.Timestamp == nil {
			continue
		}
		if count == 0 {
			first = *s.Timestamp
		}
		last = *s.Timestamp
		count++
	}
	return first, last, count >= 2
}

// altitudeSeries returns the group's altitude readings. enhanced_altitude is
// used only when no sample in the group records altitude, so one group never
// mixes the two fields.
func altitudeSeries(group []Sample) []float64 {
	pick := func(s Sample) *float64 { return s.Altitude }
	if !anySample(group, pick) {
		pick = func(s Sample) *float64 { return s.EnhancedAltitude }
	}
	out := make([]float64, 0, len(group))
	for _, s := range group {
		if v := pick(s); v != nil && isFinite(*v) {
			out = append(out, *v)
		}
	}
	return out
}

func anySample(group []Sample, field func(Sample) *float64) bool {
	for _, s := range group {
		if field(s) != nil {
			return true
		}
	}
	return false
}

// elevationChange sums the positive and negative steps between consecutive
// altitudes. A total of zero is reported as nil.
func elevationChange(altitudes []float64) (*float64, *float64) {
	if len(altitudes) < 2 {
		return nil, nil
	}
	var ascent, descent float64
	for i := 1; i < len(altitudes); i++ {
		diff := altitudes[i] - altitudes[i-1]
		if diff > 0 {
			ascent += diff
		} else {
			descent += math.Abs(diff)
		}
	}
	return positiveOrNil(ascent), positiveOrNil(descent)
}

// firstNonZero returns the first present, non-zero value in priority order.
func firstNonZero(values ...*float64) (float64, bool) {
	for _, v := range values {
		if v != nil && *v != 0 {
			return *v, true
		}
	}
	return 0, false
}

func positiveReading(v float64) bool {
	return v > 0 && isFinite(v)
}

func roundedMean(values []float64) *int {
	if len(values) == 0 {
		return nil
	}
	return roundedOrNil(stat.Mean(values, nil))
}

func roundedMax(values []float64) *int {
	if len(values) == 0 {
		return nil
	}
	return roundedOrNil(floats.Max(values))
}

// roundedOrNil drops values that overflowed or do not fit an int32.
func roundedOrNil(v float64) *int {
	r := math.Round(v)
	if !isFinite(r) || math.Abs(r) > math.MaxInt32 {
		return nil
	}
	return intPtr(int(r))
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return floatPtr(v)
}

func positiveOrNil(v float64) *float64 {
	if v > 0 && isFinite(v) {
		return floatPtr(v)
	}
	return nil
}

func floatPtr(v float64) *float64 {
	out := v
	return &out
}

func intPtr(v int) *int {
	out := v
	return &out
}
