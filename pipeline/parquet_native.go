package pipeline

import (
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

type splitParquetRow struct {
	Split       int32    `parquet:"name=split, type=INT32"`
	Distance    float64  `parquet:"name=distance, type=DOUBLE"`
	ElapsedTime string   `parquet:"name=elapsed_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	MovingTime  string   `parquet:"name=moving_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	AvgSpeed    *float64 `parquet:"name=avg_speed, type=DOUBLE, repetitiontype=OPTIONAL"`
	MaxSpeed    *float64 `parquet:"name=max_speed, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgHR       *int32   `parquet:"name=avg_hr, type=INT32, repetitiontype=OPTIONAL"`
	MaxHR       *int32   `parquet:"name=max_hr, type=INT32, repetitiontype=OPTIONAL"`
	AvgCadence  *int32   `parquet:"name=avg_cadence, type=INT32, repetitiontype=OPTIONAL"`
	MaxCadence  *int32   `parquet:"name=max_cadence, type=INT32, repetitiontype=OPTIONAL"`
	Ascent      *float64 `parquet:"name=ascent, type=DOUBLE, repetitiontype=OPTIONAL"`
	Descent     *float64 `parquet:"name=descent, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func newSplitParquetRow(s fitsplits.Split) splitParquetRow {
	return splitParquetRow{
		Split:       int32(s.Split),
		Distance:    s.Distance,
		ElapsedTime: s.ElapsedTime,
		MovingTime:  s.MovingTime,
		AvgSpeed:    s.AvgSpeed,
		MaxSpeed:    s.MaxSpeed,
		AvgHR:       int32PtrOrNil(s.AvgHR),
		MaxHR:       int32PtrOrNil(s.MaxHR),
		AvgCadence:  int32PtrOrNil(s.AvgCadence),
		MaxCadence:  int32PtrOrNil(s.MaxCadence),
		Ascent:      s.Ascent,
		Descent:     s.Descent,
	}
}

func marshalSplitsParquet(splits []fitsplits.Split) ([]byte, error) {
	fw := buffer.NewBufferFile()
	if err := writeSplitRows(fw, splits); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func writeSplitsParquet(path string, splits []fitsplits.Split) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	return writeSplitRows(fw, splits)
}

// writeSplitRows closes fw on every path.
func writeSplitRows(fw source.ParquetFile, splits []fitsplits.Split) error {
	pw, err := writer.NewParquetWriter(fw, new(splitParquetRow), 1)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range splits {
		if err := pw.Write(newSplitParquetRow(s)); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func int32PtrOrNil(v *int) *int32 {
	if v == nil {
		return nil
	}
	out := int32(*v)
	return &out
}
