//go:build js && wasm

package main

import (
	"syscall/js"

	fitsplits "github.com/lucasjlepore/fit-splits"
	"github.com/lucasjlepore/fit-splits/pipeline"
)

func main() {
	js.Global().Set("extractSplits", js.FuncOf(extractSplits))
	select {}
}

// extractSplits(fileBytes: Uint8Array, options?: {split_distance, format})
func extractSplits(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return failure("expected arguments: fileBytes(Uint8Array), options(object)")
	}
	fileArg := args[0]
	optsArg := js.Undefined()
	if len(args) > 1 {
		optsArg = args[1]
	}
	if fileArg.IsUndefined() || fileArg.IsNull() || fileArg.Get("length").Int() == 0 {
		return failure("activity file bytes are required")
	}

	fileBytes := make([]byte, fileArg.Get("length").Int())
	if n := js.CopyBytesToGo(fileBytes, fileArg); n == 0 {
		return failure("failed to read activity bytes from JS input")
	}

	distance, err := getSplitDistance(optsArg)
	if err != nil {
		return failure(err.Error())
	}

	result, err := pipeline.RunBytes(pipeline.BytesOptions{
		Data:          fileBytes,
		SplitDistance: distance,
		Format:        getString(optsArg, "format", pipeline.FormatJSON),
	})
	if err != nil {
		return failure(err.Error())
	}

	payload := js.Global().Get("Uint8Array").New(len(result.Output))
	js.CopyBytesToJS(payload, result.Output)

	return map[string]any{
		"ok":     true,
		"format": result.Format,
		"splits": len(result.Splits),
		"output": payload,
	}
}

func failure(msg string) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}

// getSplitDistance accepts either meters or a preset name such as "mi".
func getSplitDistance(v js.Value) (float64, error) {
	if v.IsUndefined() || v.IsNull() {
		return fitsplits.DefaultSplitDistance, nil
	}
	out := v.Get("split_distance")
	switch out.Type() {
	case js.TypeNumber:
		meters := out.Float()
		if err := fitsplits.ValidateSplitDistance(meters); err != nil {
			return 0, err
		}
		return meters, nil
	case js.TypeString:
		return fitsplits.ParseSplitDistance(out.String())
	default:
		return fitsplits.DefaultSplitDistance, nil
	}
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return fallback
	}
	s := out.String()
	if s == "" || s == "undefined" || s == "null" {
		return fallback
	}
	return s
}
