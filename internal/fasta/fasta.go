// internal/fasta/fasta.go
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a parsed FASTA sequence.
type Record struct {
	ID  string
	Seq []byte
}

// EachRecord streams records from r and calls emit for each one.
// The sequence ID is the header token before the first whitespace.
func EachRecord(r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		id  string
		seq = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if id == "" && len(seq) == 0 {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			header := strings.TrimSpace(string(line[1:]))
			fields := strings.Fields(header)
			if len(fields) == 0 {
				return fmt.Errorf("fasta: empty header line")
			}
			id = fields[0]
			seq = seq[:0]
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

// ScanIDs returns the sequence IDs declared in a FASTA file, in file order.
func ScanIDs(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var ids []string
	sc := bufio.NewScanner(fh)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, 64*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, ">"))
		if len(fields) > 0 {
			ids = append(ids, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// WriteIDList writes one sequence ID per line, the index-list format the
// sequence-extraction tool consumes.
func WriteIDList(path string, ids []string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
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
