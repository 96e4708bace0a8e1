package pipeline

import (
	"io"

	"github.com/hashicorp/go-hclog"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

// Output formats understood by Run and RunBytes.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Options configures one split extraction run.
type Options struct {
	InputPath     string
	SplitDistance float64 // meters; zero selects fitsplits.DefaultSplitDistance
	Format        string  // json|csv|parquet
	OutPath       string  // written instead of Output when set
	Output        io.Writer
	Logger        hclog.Logger
}

// BytesOptions configures an in-memory run.
type BytesOptions struct {
	Data          []byte
	SplitDistance float64
	Format        string
	Logger        hclog.Logger
}

// Result describes one run.
type Result struct {
	Splits        []fitsplits.Split `json:"splits"`
	SplitDistance float64           `json:"-"`
	SampleCount   int               `json:"-"`
	FilteredCount int               `json:"-"`
	Format        string            `json:"-"`
	OutputPath    string            `json:"-"`
}

// BytesResult carries the rendered document of an in-memory run.
type BytesResult struct {
	Result
	Output []byte
}
