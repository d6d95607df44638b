package report

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"xqlint/internal/check"
	"xqlint/internal/driver"
)

// JSON writes the whole run as one indented document.
func JSON(w io.Writer, res *driver.Result, reg *check.Registry, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(res, reg, opts))
}

// Msgpack writes a stream of FileOut records followed by the Summary, so a
// consumer can decode file by file without holding the run in memory.
func Msgpack(w io.Writer, res *driver.Result, reg *check.Registry, opts Options) error {
	out := Build(res, reg, opts)
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	for i := range out.Files {
		if err := enc.Encode(&out.Files[i]); err != nil {
			return err
		}
	}
	return enc.Encode(&out.Summary)
}

// Write dispatches on format.
func Write(w io.Writer, format Format, res *driver.Result, reg *check.Registry, opts Options) error {
	switch format {
	case FormatShort:
		return Short(w, res, opts)
	case FormatJSON:
		return JSON(w, res, reg, opts)
	case FormatMsgpack:
		return Msgpack(w, res, reg, opts)
	case FormatSarif:
		return Sarif(w, res, reg, opts)
	default:
		return Pretty(w, res, reg, opts)
	}
}
