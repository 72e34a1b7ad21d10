// internal/jsonutil/json.go
package jsonutil

import (
	"encoding/json"
	"io"
	"os"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFile writes v as indented JSON to path, replacing any existing file.
func WriteFile(path string, v any) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePretty(fh, v); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
