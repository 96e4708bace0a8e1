// Package decode turns activity recordings into ordered record samples.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

var (
	// ErrNotFound reports that the source recording does not exist.
	ErrNotFound = errors.New("activity file not found")

	// ErrDecode reports that the source recording could not be parsed.
	ErrDecode = errors.New("error parsing activity file")
)

// Decoder reads every record sample of one recording, in file order.
type Decoder interface {
	Decode(r io.Reader) ([]fitsplits.Sample, error)
}

// File decodes the recording at path.
func File(path string) ([]fitsplits.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read activity file: %w", err)
	}
	return Bytes(data)
}

// Bytes decodes an in-memory recording, detecting its format from the content.
func Bytes(data []byte) ([]fitsplits.Sample, error) {
	samples, err := For(data).Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return samples, nil
}

// For picks the decoder for data. FIT files are recognised by the ".FIT"
// signature in their header; content starting with a JSON object is treated
// as a JSON Lines sample stream. Anything else goes to the FIT decoder, which
// reports why it cannot be read.
func For(data []byte) Decoder {
	if len(data) >= 12 && string(data[8:12]) == ".FIT" {
		return FIT{}
	}
	if trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff"); len(trimmed) > 0 && trimmed[0] == '{' {
		return JSONL{}
	}
	return FIT{}
}
