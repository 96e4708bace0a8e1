package decode

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

// JSONL decodes a JSON Lines stream holding one record sample per line, keyed
// by FIT field name:
//
//	{"timestamp": "2026-03-14T07:30:00Z", "distance": 12.4, "heart_rate": 131}
//
// Null, missing, and non-numeric values are treated as absent. A timestamp that
// is not an RFC 3339 string fails the whole stream.
type JSONL struct{}

// Decode implements Decoder.
func (JSONL) Decode(r io.Reader) ([]fitsplits.Sample, error) {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 16*1024*1024)

	samples := make([]fitsplits.Sample, 0, 4096)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if line == 1 {
			raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
		}
		if len(raw) == 0 {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("unmarshal jsonl line %d: %w", line, err)
		}
		s, err := sampleFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("jsonl line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func sampleFromFields(fields map[string]any) (fitsplits.Sample, error) {
	ts, err := parseTimestamp(fields["timestamp"])
	if err != nil {
		return fitsplits.Sample{}, err
	}
	return fitsplits.Sample{
		Timestamp:        ts,
		Distance:         numberField(fields, "distance"),
		Speed:            numberField(fields, "speed"),
		EnhancedSpeed:    numberField(fields, "enhanced_speed"),
		HeartRate:        numberField(fields, "heart_rate"),
		Cadence:          numberField(fields, "cadence"),
		Altitude:         numberField(fields, "altitude"),
		EnhancedAltitude: numberField(fields, "enhanced_altitude"),
	}, nil
}

func parseTimestamp(v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", x, err)
		}
		return &ts, nil
	default:
		return nil, fmt.Errorf("timestamp must be an RFC 3339 string, got %T", v)
	}
}

func numberField(fields map[string]any, name string) *float64 {
	v, ok := fields[name].(float64)
	if !ok {
		return nil
	}
	return floatPtr(v)
}
