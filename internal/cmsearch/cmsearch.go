// internal/cmsearch/cmsearch.go

// Package cmsearch runs an Infernal single-family search. The cascade uses
// it as the tRNA fallback: sequences the specialized classifier missed get
// one last chance against the generic RF00005 family model.
package cmsearch

import (
	"bufio"
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

type Config struct {
	Binary  string // e.g. "cmsearch"
	CMPath  string // covariance model file for the family
	ModelID string // family accession recorded on every hit, e.g. RF00005
	Runner  tools.Runner
	Log     *zap.Logger
}

// Search runs cmsearch in --nohmm mode and returns one PASS record per
// matched sequence. The tblout file is memoized by existence like every
// other stage output.
func Search(ctx context.Context, fastaInput, outDir string, cfg Config) ([]hits.Record, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	tblout := TbloutPath(outDir, cfg.ModelID)
	if _, err := os.Stat(tblout); err != nil {
		cmd := tools.Command{
			Name: cfg.Binary,
			Args: []string{
				"--nohmm",
				"--tblout", tblout,
				"-o", filepath.Join(outDir, cfg.ModelID+".cmsearch.out"),
				cfg.CMPath,
				fastaInput,
			},
		}
		log.Info("running family search", zap.String("cmd", cmd.String()))
		if _, err := cfg.Runner.Run(ctx, cmd); err != nil {
			return nil, fmt.Errorf("cmsearch: %w", err)
		}
	} else {
		log.Info("reusing family search output", zap.String("report", tblout))
	}

	fh, err := os.Open(tblout)
	if err != nil {
		return nil, fmt.Errorf("cmsearch tblout: %w", err)
	}
	defer func() { _ = fh.Close() }()

	recs, err := ParseTblout(fh, cfg.ModelID)
	if err != nil {
		return nil, err
	}
	if err := hits.WriteFile(filepath.Join(outDir, hits.FileName), recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// TbloutPath is the memoized tabular output location for a family search.
func TbloutPath(outDir, modelID string) string {
	return filepath.Join(outDir, modelID+".tblout")
}

// ParseTblout extracts target names from Infernal tblout rows. Multiple
// envelopes on one target collapse to a single hit. No rows is a normal
// "nothing matched" outcome.
func ParseTblout(r io.Reader, modelID string) ([]hits.Record, error) {
	var recs []hits.Record
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		target := f[0]
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		recs = append(recs, hits.Record{
			SequenceID: target,
			ModelID:    modelID,
			Status:     hits.Pass,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
