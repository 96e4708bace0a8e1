package fitsplits

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)

type sampleSpec struct {
	offset   float64 // seconds after testStart; negative means no timestamp
	distance float64
}

func buildSamples(specs ...sampleSpec) []Sample {
	out := make([]Sample, 0, len(specs))
	for _, sp := range specs {
		s := Sample{Distance: floatPtr(sp.distance)}
		if sp.offset >= 0 {
			ts := testStart.Add(time.Duration(sp.offset * float64(time.Second)))
			s.Timestamp = &ts
		}
		out = append(out, s)
	}
	return out
}

func TestSegmentConcreteScenario(t *testing.T) {
	samples := buildSamples(
		sampleSpec{0, 0},
		sampleSpec{60, 300},
		sampleSpec{130, 650},
		sampleSpec{200, 1000},
		sampleSpec{210, 1050},
		sampleSpec{340, 1700},
	)

	splits, err := Segment(samples, 1000)
	require.NoError(t, err)
	require.Len(t, splits, 2)

	assert.Equal(t, 1, splits[0].Split)
	assert.Equal(t, 1000.0, splits[0].Distance)
	assert.Equal(t, "00:03:20", splits[0].ElapsedTime)
	assert.Equal(t, splits[0].ElapsedTime, splits[0].MovingTime)

	// The sample at 1000 m closes split 1 and seeds split 2.
	assert.Equal(t, 2, splits[1].Split)
	assert.Equal(t, 700.0, splits[1].Distance)
	assert.Equal(t, "00:02:20", splits[1].ElapsedTime)
}

func TestSegmentSpeedFallback(t *testing.T) {
	samples := buildSamples(sampleSpec{0, 0}, sampleSpec{100, 480}, sampleSpec{200, 1000})

	splits, err := Segment(samples, 1000)
	require.NoError(t, err)
	require.Len(t, splits, 1)
	require.NotNil(t, splits[0].AvgSpeed)
	assert.Equal(t, 5.0, *splits[0].AvgSpeed)
	assert.Nil(t, splits[0].MaxSpeed)
}

func TestSegmentEmptyInput(t *testing.T) {
	splits, err := Segment(nil, 1000)
	require.NoError(t, err)
	assert.NotNil(t, splits)
	assert.Empty(t, splits)

	noDistance := []Sample{{Timestamp: &testStart}, {Timestamp: &testStart}}
	res, err := Extract(noDistance, 1000)
	require.NoError(t, err)
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"splits": []}`, string(out))
}

func TestSegmentRejectsNonPositiveDistance(t *testing.T) {
	samples := buildSamples(sampleSpec{0, 0}, sampleSpec{10, 50})
	for _, d := range []float64{0, -1000, math.NaN(), math.Inf(1)} {
		_, err := Segment(samples, d)
		assert.ErrorIs(t, err, ErrInvalidSplitDistance, "distance %v", d)
	}
}

func TestSegmentDropsGroupWithoutTimestampPairKeepsNumbering(t *testing.T) {
	samples := buildSamples(
		sampleSpec{0, 0},
		sampleSpec{240, 1000}, // closes split 1, seeds the next group
		sampleSpec{-1, 1500},
		sampleSpec{-1, 2000}, // closes a group holding one timestamp: dropped
		sampleSpec{-1, 2400},
		sampleSpec{700, 2600},
		sampleSpec{800, 3000}, // closes the group seeded at 2000 m as split 2
	)
	splits, err := Segment(samples, 1000)
	require.NoError(t, err)

	got := make([]int, 0, len(splits))
	for _, s := range splits {
		got = append(got, s.Split)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1000.0, splits[1].Distance)
	assert.Equal(t, "00:01:40", splits[1].ElapsedTime)
}

func TestSegmentSingleTimestampGroupDropped(t *testing.T) {
	samples := buildSamples(sampleSpec{0, 0}, sampleSpec{-1, 400}, sampleSpec{-1, 800})
	samples[1].Speed = floatPtr(3.2)

	splits, err := Segment(samples, 1000)
	require.NoError(t, err)
	assert.Empty(t, splits)
}

func TestSegmentSkipsSamplesWithoutDistance(t *testing.T) {
	ts := testStart.Add(30 * time.Second)
	samples := buildSamples(sampleSpec{0, 0}, sampleSpec{120, 600})
	samples = append(samples[:1], append([]Sample{{Timestamp: &ts}}, samples[1:]...)...)

	splits, err := Segment(samples, 1000)
	require.NoError(t, err)
	require.Len(t, splits, 1)
	assert.Equal(t, "00:02:00", splits[0].ElapsedTime)
	assert.Equal(t, 600.0, splits[0].Distance)
}

func TestSegmentCoversInputInOrder(t *testing.T) {
	const threshold = 400.0
	specs := make([]sampleSpec, 0, 300)
	distance := 0.0
	for i := 0; i < 300; i++ {
		specs = append(specs, sampleSpec{offset: float64(i * 2), distance: distance})
		distance += 3.7 + float64(i%5)
	}
	samples := buildSamples(specs...)

	splits, err := Segment(samples, threshold)
	require.NoError(t, err)
	require.NotEmpty(t, splits)

	total := specs[len(specs)-1].distance - specs[0].distance
	assert.LessOrEqual(t, len(splits), int(math.Ceil(total/threshold)))

	covered := 0.0
	for i, s := range splits {
		assert.Equal(t, i+1, s.Split)
		if i < len(splits)-1 {
			assert.GreaterOrEqual(t, s.Distance, threshold)
		}
		covered += s.Distance
	}
	assert.InDelta(t, total, covered, 1e-6)

	again, err := Segment(samples, threshold)
	require.NoError(t, err)
	if diff := cmp.Diff(splits, again); diff != "" {
		t.Fatalf("segmenting twice differs (-first +second):\n%s", diff)
	}
}

func TestComputeSplitElevation(t *testing.T) {
	tests := []struct {
		name      string
		altitudes []float64
		ascent    *float64
		descent   *float64
	}{
		{name: "mixed", altitudes: []float64{100, 105, 102, 108}, ascent: floatPtr(11), descent: floatPtr(3)},
		{name: "non-decreasing", altitudes: []float64{100, 100, 104, 110}, ascent: floatPtr(10)},
		{name: "non-increasing", altitudes: []float64{-2, -4, -4}, descent: floatPtr(2)},
		{name: "flat", altitudes: []float64{0, 0, 0}},
		{name: "single reading", altitudes: []float64{100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			group := buildSamples(sampleSpec{0, 0}, sampleSpec{60, 200})
			for i, alt := range tc.altitudes {
				s := Sample{Distance: floatPtr(float64(300 + i)), Altitude: floatPtr(alt)}
				group = append(group, s)
			}
			split, ok := ComputeSplit(group, 1, 303)
			require.True(t, ok)
			assert.Equal(t, tc.ascent, split.Ascent)
			assert.Equal(t, tc.descent, split.Descent)
		})
	}
}

func TestComputeSplitAggregates(t *testing.T) {
	group := buildSamples(sampleSpec{0, 0}, sampleSpec{1, 3}, sampleSpec{2, 6}, sampleSpec{3, 9})
	group[0].EnhancedSpeed = floatPtr(3.0)
	group[0].Speed = floatPtr(9.0)
	group[1].EnhancedSpeed = floatPtr(0)
	group[1].Speed = floatPtr(4.0)
	group[2].Speed = floatPtr(-1)
	group[3].Speed = floatPtr(5.0)

	group[0].HeartRate = floatPtr(140)
	group[1].HeartRate = floatPtr(141)
	group[2].HeartRate = floatPtr(0)
	group[3].HeartRate = floatPtr(150)

	group[1].Cadence = floatPtr(170)
	group[2].Cadence = floatPtr(171)

	group[0].EnhancedAltitude = floatPtr(12)
	group[1].Altitude = floatPtr(10)
	group[1].EnhancedAltitude = floatPtr(99)
	group[3].Altitude = floatPtr(8)

	split, ok := ComputeSplit(group, 7, 9)
	require.True(t, ok)

	want := Split{
		Split:       7,
		Distance:    9,
		ElapsedTime: "00:00:03",
		MovingTime:  "00:00:03",
		AvgSpeed:    floatPtr(4.0),
		MaxSpeed:    floatPtr(5.0),
		AvgHR:       intPtr(144),
		MaxHR:       intPtr(150),
		AvgCadence:  intPtr(171), // 170.5 rounds up
		MaxCadence:  intPtr(171),
		Descent:     floatPtr(2),
	}
	if diff := cmp.Diff(want, split); diff != "" {
		t.Fatalf("ComputeSplit mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSplitAltitudeFieldPerGroup(t *testing.T) {
	group := buildSamples(sampleSpec{0, 0}, sampleSpec{10, 50}, sampleSpec{20, 100})
	group[0].EnhancedAltitude = floatPtr(100)
	group[1].EnhancedAltitude = floatPtr(104)
	group[2].EnhancedAltitude = floatPtr(101)

	split, ok := ComputeSplit(group, 1, 100)
	require.True(t, ok)
	assert.Equal(t, floatPtr(4), split.Ascent)
	assert.Equal(t, floatPtr(3), split.Descent)

	// One altitude reading switches the whole group to altitude.
	group[1].Altitude = floatPtr(90)
	split, ok = ComputeSplit(group, 1, 100)
	require.True(t, ok)
	assert.Nil(t, split.Ascent)
	assert.Nil(t, split.Descent)
}

func TestComputeSplitOverflowDegradesToAbsent(t *testing.T) {
	group := buildSamples(sampleSpec{0, 0}, sampleSpec{10, 50}, sampleSpec{20, 100})
	for i := range group {
		group[i].Speed = floatPtr(1e308)
		group[i].HeartRate = floatPtr(1e308)
		group[i].Cadence = floatPtr(math.Inf(1))
		group[i].Altitude = floatPtr(math.Pow(-1, float64(i)) * 1e308)
	}
	group[2].HeartRate = floatPtr(150)

	split, ok := ComputeSplit(group, 1, 100)
	require.True(t, ok)
	assert.Nil(t, split.AvgSpeed, "mean overflows to +Inf")
	require.NotNil(t, split.MaxSpeed)
	assert.Equal(t, 1e308, *split.MaxSpeed)
	assert.Nil(t, split.AvgHR)
	assert.Nil(t, split.MaxHR)
	assert.Nil(t, split.AvgCadence)
	assert.Nil(t, split.MaxCadence)
	assert.Nil(t, split.Ascent)
	assert.Nil(t, split.Descent)

	out, err := json.Marshal(Result{Splits: []Split{split}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"avg_speed":null`)
}

func TestComputeSplitNoSpeedNoDistance(t *testing.T) {
	group := buildSamples(sampleSpec{0, 500}, sampleSpec{30, 500})
	split, ok := ComputeSplit(group, 1, 0)
	require.True(t, ok)
	assert.Nil(t, split.AvgSpeed)
	assert.Nil(t, split.MaxSpeed)
	assert.Nil(t, split.AvgHR)
	assert.Nil(t, split.MaxCadence)
}

func TestSplitJSONKeepsNulls(t *testing.T) {
	out, err := json.Marshal(Split{Split: 1, Distance: 12.5, ElapsedTime: "00:00:05", MovingTime: "00:00:05"})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"split": 1, "distance": 12.5, "elapsed_time": "00:00:05", "moving_time": "00:00:05",
		"avg_speed": null, "max_speed": null, "avg_hr": null, "max_hr": null,
		"avg_cadence": null, "max_cadence": null, "ascent": null, "descent": null
	}`, string(out))
}

func TestFormatElapsed(t *testing.T) {
	tests := map[float64]string{
		0:       "00:00:00",
		59.999:  "00:00:59",
		200:     "00:03:20",
		3661.9:  "01:01:01",
		360000:  "100:00:00",
		-130:    "-00:02:10",
		86399.0: "23:59:59",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatElapsed(in), "FormatElapsed(%v)", in)
	}
}

func TestParseSplitDistance(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		err  bool
	}{
		{in: "", want: DefaultSplitDistance},
		{in: "1000", want: 1000},
		{in: " 400.5 ", want: 400.5},
		{in: "mi", want: MetersPerMile},
		{in: "Miles", want: MetersPerMile},
		{in: "km", want: 1000},
		{in: "0", err: true},
		{in: "-5", err: true},
		{in: "fast", err: true},
		{in: "NaN", err: true},
	}
	for _, tc := range tests {
		got, err := ParseSplitDistance(tc.in)
		if tc.err {
			assert.ErrorIs(t, err, ErrInvalidSplitDistance, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
