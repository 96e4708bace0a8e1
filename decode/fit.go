package decode

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tormoder/fit"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

// FIT decodes the record messages of a FIT activity or course file.
type FIT struct{}

// Decode implements Decoder.
func (FIT) Decode(r io.Reader) ([]fitsplits.Sample, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	records, err := recordMessages(decoded)
	if err != nil {
		return nil, err
	}

	samples := make([]fitsplits.Sample, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		samples = append(samples, sampleFromRecord(rec))
	}
	return samples, nil
}

// recordMessages returns the record messages of the file types that carry
// them: activities and courses.
func recordMessages(f *fit.File) ([]*fit.RecordMsg, error) {
	switch f.Type() {
	case fit.FileTypeActivity:
		activity, err := f.Activity()
		if err != nil {
			return nil, fmt.Errorf("activity FIT expected: %w", err)
		}
		return activity.Records, nil
	case fit.FileTypeCourse:
		course, err := f.Course()
		if err != nil {
			return nil, fmt.Errorf("course FIT expected: %w", err)
		}
		return course.Records, nil
	default:
		return nil, fmt.Errorf("FIT file type %v has no record messages", f.Type())
	}
}

func sampleFromRecord(rec *fit.RecordMsg) fitsplits.Sample {
	s := fitsplits.Sample{
		Distance:         scaledOrNil(rec.GetDistanceScaled()),
		Speed:            scaledOrNil(rec.GetSpeedScaled()),
		EnhancedSpeed:    scaledOrNil(rec.GetEnhancedSpeedScaled()),
		Altitude:         scaledOrNil(rec.GetAltitudeScaled()),
		EnhancedAltitude: scaledOrNil(rec.GetEnhancedAltitudeScaled()),
	}
	if ts := validTimeOrZero(rec.Timestamp); !ts.IsZero() {
		s.Timestamp = &ts
	}
	if rec.HeartRate != math.MaxUint8 {
		s.HeartRate = floatPtr(float64(rec.HeartRate))
	}
	if rec.Cadence != math.MaxUint8 {
		s.Cadence = floatPtr(float64(rec.Cadence))
	}
	return s
}

// scaledOrNil maps the NaN the fit package returns for invalid fields to nil.
func scaledOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return floatPtr(v)
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func floatPtr(v float64) *float64 {
	out := v
	return &out
}
