// internal/trnascan/trnascan.go

// Package trnascan classifies tRNA sequences with tRNAscan-SE and maps
// each call to a domain-and-isotype template.
package trnascan

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"r2dt/internal/hits"
	"r2dt/internal/tools"
)

// Domains are searched in this order; the first domain model that calls a
// sequence claims it, mirroring the cascade's own first-match-wins rule.
var Domains = []string{"E", "B", "A"}

type Config struct {
	Binary string // e.g. "tRNAscan-SE"
	Runner tools.Runner
	Log    *zap.Logger
}

// Classify runs tRNAscan-SE once per domain over fastaInput and returns
// one record per claimed sequence. Records carry domain, isotype and the
// predicted tRNA boundaries for the renderer; the model ID is
// "<domain>_<isotype>". Per-domain outputs are memoized by file existence.
func Classify(ctx context.Context, fastaInput, outDir string, cfg Config) ([]hits.Record, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var recs []hits.Record
	claimed := make(map[string]struct{})
	for _, domain := range Domains {
		outFile := OutputPath(outDir, domain)
		if _, err := os.Stat(outFile); err != nil {
			cmd := tools.Command{
				Name: cfg.Binary,
				Args: []string{"-q", "-Q", "-" + domain, "-o", outFile, fastaInput},
			}
			log.Info("running tRNA classifier", zap.String("cmd", cmd.String()))
			if _, err := cfg.Runner.Run(ctx, cmd); err != nil {
				return nil, fmt.Errorf("trnascan (%s): %w", domain, err)
			}
		} else {
			log.Info("reusing tRNA classifier output", zap.String("report", outFile))
		}

		fh, err := os.Open(outFile)
		if err != nil {
			return nil, err
		}
		domainRecs, err := ParseOutput(fh, domain)
		_ = fh.Close()
		if err != nil {
			return nil, err
		}
		for _, r := range domainRecs {
			if _, dup := claimed[r.SequenceID]; dup {
				continue
			}
			claimed[r.SequenceID] = struct{}{}
			recs = append(recs, r)
		}
	}

	if err := hits.WriteFile(filepath.Join(outDir, hits.FileName), recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// OutputPath is the memoized per-domain report location.
func OutputPath(outDir, domain string) string {
	return filepath.Join(outDir, "trnascan-"+domain+".out")
}

// ParseOutput reads the tRNAscan-SE tabular report. The three header lines
// and sequences with no call are skipped. Multiple calls on one sequence
// keep the first (highest-ranked) row only.
func ParseOutput(r io.Reader, domain string) ([]hits.Record, error) {
	var recs []hits.Record
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" ||
			strings.HasPrefix(line, "Sequence") ||
			strings.HasPrefix(line, "Name") ||
			strings.HasPrefix(line, "---") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 9 {
			return nil, fmt.Errorf("trnascan report line %d: expected >=9 columns, got %d", ln, len(f))
		}
		seqID := f[0]
		if _, dup := seen[seqID]; dup {
			continue
		}
		start, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, fmt.Errorf("trnascan report line %d: bad begin: %w", ln, err)
		}
		end, err := strconv.Atoi(f[3])
		if err != nil {
			return nil, fmt.Errorf("trnascan report line %d: bad end: %w", ln, err)
		}
		isotype := f[4]
		if isotype == "Undet" || isotype == "Pseudo" {
			continue
		}
		seen[seqID] = struct{}{}
		recs = append(recs, hits.Record{
			SequenceID: seqID,
			ModelID:    domain + "_" + isotype,
			Status:     hits.Pass,
			Domain:     domain,
			Isotype:    isotype,
			Start:      start,
			End:        end,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
