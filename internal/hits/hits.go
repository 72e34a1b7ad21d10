// internal/hits/hits.go
package hits

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Status is the raw classifier verdict attached to a hit row.
type Status string

const (
	Pass         Status = "PASS"
	Fail         Status = "FAIL"
	MultipleHits Status = "MultipleHits"
	NoHits       Status = "NoHits"
)

// Record is one normalized classifier hit. Exactly one record may exist per
// sequence across the whole cascade; records are immutable once produced.
//
// Domain/Isotype/Start/End are populated by the tRNA classifier only and
// stay zero-valued for every other stage. They travel with the record so the
// renderer can be called without a second lookup, but they are not part of
// the on-disk hits artifact.
type Record struct {
	SequenceID string
	ModelID    string
	Status     Status

	Domain  string
	Isotype string
	Start   int
	End     int
}

// FileName is the per-stage normalized hits artifact, kept identical to the
// historical layout so downstream consumers keep working.
const FileName = "hits.txt"

// WriteFile writes recs as a three-column TSV artifact. The file is written
// once per stage pass and never updated in place.
func WriteFile(path string, recs []Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	for _, r := range recs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.SequenceID, r.ModelID, r.Status); err != nil {
			_ = fh.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// ReadFile parses a hits artifact. A missing file means the stage claimed
// nothing and yields an empty list, not an error.
func ReadFile(path string) ([]Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var recs []Record
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\n")
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 columns, got %d", path, ln, len(f))
		}
		recs = append(recs, Record{
			SequenceID: f[0],
			ModelID:    f[1],
			Status:     Status(strings.TrimSpace(f[2])),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
