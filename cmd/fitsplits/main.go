package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	fitsplits "github.com/lucasjlepore/fit-splits"
	"github.com/lucasjlepore/fit-splits/config"
	"github.com/lucasjlepore/fit-splits/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code. Failures are
// reported on stdout as {"error": "..."}.
func run(args []string, stdout, stderr io.Writer) int {
	name := filepath.Base(os.Args[0])

	cfg, err := config.Load()
	if err != nil {
		return fail(stdout, err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format  = fs.String("format", cfg.Format, "Output format: json|csv|parquet")
		outPath = fs.String("out", "", "Write output to this file instead of stdout")
		verbose = fs.Bool("v", false, "Log debug detail to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [-format json|csv|parquet] [-out path] <activity_file> [split_distance_meters|km|mi]\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return fail(stdout, err)
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fail(stdout, fmt.Errorf("usage: %s <activity_file> [split_distance_meters]", name))
	}

	var distance float64
	if fs.NArg() == 2 {
		distance, err = fitsplits.ParseSplitDistance(fs.Arg(1))
	} else {
		distance, err = cfg.SplitMeters()
	}
	if err != nil {
		return fail(stdout, err)
	}

	level := cfg.Level()
	if *verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "fitsplits",
		Level:  level,
		Output: stderr,
	})

	opts := pipeline.Options{
		InputPath:     fs.Arg(0),
		SplitDistance: distance,
		Format:        *format,
		OutPath:       *outPath,
		Logger:        logger,
	}
	if *outPath == "" {
		opts.Output = stdout
	}
	if _, err := pipeline.Run(opts); err != nil {
		return fail(stdout, err)
	}
	return 0
}

func fail(w io.Writer, err error) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"error": err.Error()})
	return 1
}
