// internal/ribotyper/ribotyper.go

// Package ribotyper runs the ribovore classifier over a sequence file and
// normalizes its long report into hit records.
package ribotyper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"r2dt/internal/hits"
	"r2dt/internal/tools"
)

// Config selects the template library and the row-filtering policy for one
// classifier stage.
type Config struct {
	Binary  string // classifier binary, e.g. "ribotyper.pl"
	Library string // template library directory holding modelinfo.txt

	// SkipFilters selects the lenient policy: keep every row except
	// explicit NoHits rows. The strict default keeps unambiguous PASS
	// rows only and drops MultipleHits rows.
	SkipFilters bool

	Runner tools.Runner
	Log    *zap.Logger
}

// Run classifies fastaInput against cfg.Library and returns the surviving
// hit records. The normalized artifact is written to outDir/hits.txt so a
// later aggregation pass can pick it up. An already-present long report is
// trusted by existence alone and the classifier run is skipped; the report
// is never re-validated against the input, so a stale report silently wins.
// Zero classifier rows is a normal outcome and yields an empty list.
func Run(ctx context.Context, fastaInput, outDir string, cfg Config) ([]hits.Record, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	longOut := LongReportPath(outDir)
	if _, err := os.Stat(longOut); err != nil {
		cmd := tools.Command{
			Name: cfg.Binary,
			Args: []string{
				"--skipval",
				"-i", filepath.Join(cfg.Library, "modelinfo.txt"),
				"-f", fastaInput,
				outDir,
			},
		}
		log.Info("running classifier", zap.String("cmd", cmd.String()))
		if _, err := cfg.Runner.Run(ctx, cmd); err != nil {
			return nil, fmt.Errorf("ribotyper: %w", err)
		}
	} else {
		log.Info("reusing classifier output", zap.String("report", longOut))
	}

	raw, err := os.ReadFile(longOut)
	if err != nil {
		return nil, fmt.Errorf("ribotyper report: %w", err)
	}
	recs, err := ParseLongReport(bytes.NewReader(raw), cfg.SkipFilters)
	if err != nil {
		return nil, err
	}
	if err := hits.WriteFile(filepath.Join(outDir, hits.FileName), recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// LongReportPath is where ribotyper leaves its long-format report for a
// given output directory.
func LongReportPath(outDir string) string {
	return filepath.Join(outDir, filepath.Base(outDir)+".ribotyper.long.out")
}

// ParseLongReport filters and normalizes the whitespace-aligned long
// report. Filters apply to the whole row text: the verdict column says
// PASS/FAIL while MultipleHits/NoHits show up in the unexpected-features
// column, and both matter.
//
// Strict: drop rows mentioning MultipleHits, keep rows mentioning PASS.
// Lenient: drop rows mentioning NoHits, keep the rest.
func ParseLongReport(r io.Reader, lenient bool) ([]hits.Record, error) {
	var recs []hits.Record
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		if lenient {
			if strings.Contains(line, string(hits.NoHits)) {
				continue
			}
		} else {
			if strings.Contains(line, string(hits.MultipleHits)) {
				continue
			}
			if !strings.Contains(line, string(hits.Pass)) {
				continue
			}
		}
		f := strings.Fields(line)
		if len(f) < 8 {
			return nil, fmt.Errorf("ribotyper report line %d: expected >=8 columns, got %d", ln, len(f))
		}
		recs = append(recs, hits.Record{
			SequenceID: f[1],
			ModelID:    f[7],
			Status:     hits.Status(f[2]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
