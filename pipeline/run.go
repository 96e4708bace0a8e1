package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	fitsplits "github.com/lucasjlepore/fit-splits"
	"github.com/lucasjlepore/fit-splits/decode"
)

// Run decodes the recording at opts.InputPath, extracts its splits and writes
// the rendered document to opts.OutPath or opts.Output.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	distance, err := splitDistance(opts.SplitDistance)
	if err != nil {
		return nil, err
	}
	logger := loggerOrNull(opts.Logger).With("input", opts.InputPath)

	samples, err := decode.File(opts.InputPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded activity", "samples", len(samples))

	result, err := extract(samples, distance, logger)
	if err != nil {
		return nil, err
	}
	result.Format = format

	switch {
	case opts.OutPath != "":
		if err := writeFile(opts.OutPath, format, result.Splits); err != nil {
			return nil, fmt.Errorf("write %s output: %w", format, err)
		}
		result.OutputPath = opts.OutPath
		logger.Info("wrote splits", "path", opts.OutPath, "format", format)
	case opts.Output != nil:
		if err := render(opts.Output, format, result.Splits); err != nil {
			return nil, fmt.Errorf("render %s output: %w", format, err)
		}
	}
	return result, nil
}

// RunBytes is Run for a recording already held in memory.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.Data) == 0 {
		return nil, fmt.Errorf("activity file bytes are required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	distance, err := splitDistance(opts.SplitDistance)
	if err != nil {
		return nil, err
	}
	logger := loggerOrNull(opts.Logger)

	samples, err := decode.Bytes(opts.Data)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded activity", "bytes", len(opts.Data), "samples", len(samples))

	result, err := extract(samples, distance, logger)
	if err != nil {
		return nil, err
	}
	result.Format = format

	var buf bytes.Buffer
	if err := render(&buf, format, result.Splits); err != nil {
		return nil, fmt.Errorf("render %s output: %w", format, err)
	}
	return &BytesResult{Result: *result, Output: buf.Bytes()}, nil
}

func extract(samples []fitsplits.Sample, distance float64, logger hclog.Logger) (*Result, error) {
	filtered := fitsplits.FilterRecords(samples)
	if len(filtered) == 0 {
		logger.Debug("no samples carry a distance")
	}

	splits, err := fitsplits.Segment(filtered, distance)
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted splits", "with_distance", len(filtered), "splits", len(splits), "split_distance_m", distance)
	for _, s := range splits {
		logger.Trace("split", "number", s.Split, "distance_m", s.Distance, "elapsed", s.ElapsedTime)
	}

	return &Result{
		Splits:        splits,
		SplitDistance: distance,
		SampleCount:   len(samples),
		FilteredCount: len(filtered),
	}, nil
}

func render(w io.Writer, format string, splits []fitsplits.Split) error {
	switch format {
	case FormatCSV:
		return writeSplitsCSV(w, splits)
	case FormatParquet:
		data, err := marshalSplitsParquet(splits)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return writeJSON(w, fitsplits.Result{Splits: splits})
	}
}

func writeFile(path, format string, splits []fitsplits.Split) error {
	if format == FormatParquet {
		return writeSplitsParquet(path, splits)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, format, splits); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func normalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json|csv|parquet)", format)
	}
}

func splitDistance(meters float64) (float64, error) {
	if meters == 0 {
		return fitsplits.DefaultSplitDistance, nil
	}
	if err := fitsplits.ValidateSplitDistance(meters); err != nil {
		return 0, err
	}
	return meters, nil
}

func loggerOrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}
