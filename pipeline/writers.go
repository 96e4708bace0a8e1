package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

var splitColumns = []string{
	"split", "distance", "elapsed_time", "moving_time",
	"avg_speed", "max_speed", "avg_hr", "max_hr", "avg_cadence", "max_cadence",
	"ascent", "descent",
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSplitsCSV writes one row per split; absent metrics are empty cells.
func writeSplitsCSV(w io.Writer, splits []fitsplits.Split) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(splitColumns); err != nil {
		return err
	}
	for _, s := range splits {
		row := []string{
			strconv.Itoa(s.Split),
			formatFloat(s.Distance),
			s.ElapsedTime,
			s.MovingTime,
			formatFloatPtr(s.AvgSpeed),
			formatFloatPtr(s.MaxSpeed),
			formatIntPtr(s.AvgHR),
			formatIntPtr(s.MaxHR),
			formatIntPtr(s.AvgCadence),
			formatIntPtr(s.MaxCadence),
			formatFloatPtr(s.Ascent),
			formatFloatPtr(s.Descent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
