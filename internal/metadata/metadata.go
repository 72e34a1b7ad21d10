// internal/metadata/metadata.go

// Package metadata merges per-stage hit artifacts into the single
// results/tsv/metadata.tsv table. Stage-specific status tokens are
// rewritten into the owning library's display label; row order follows
// stage priority, so the table itself records which stage first claimed
// each sequence.
package metadata

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"r2dt/internal/hits"
)

// sourceLabels maps (stage, raw status) to the human-readable source
// label. FAIL rows keep the library label for libraries where
// "fail but still assigned" is a valid terminal state; the tRNA classifier
// never emits FAIL rows so gtrnadb maps PASS only.
var sourceLabels = map[string]map[hits.Status]string{
	"rfam":           {hits.Pass: "Rfam", hits.Fail: "Rfam"},
	"RF00005":        {hits.Pass: "Rfam", hits.Fail: "Rfam"},
	"crw":            {hits.Pass: "CRW", hits.Fail: "CRW"},
	"ribovision-ssu": {hits.Pass: "RiboVision", hits.Fail: "RiboVision"},
	"ribovision-lsu": {hits.Pass: "RiboVision", hits.Fail: "RiboVision"},
	"rnasep":         {hits.Pass: "RNAse P Database", hits.Fail: "RNAse P Database"},
	"gtrnadb":        {hits.Pass: "GtRNAdb"},
}

// forcedLabels maps a model type (as reported by the template catalog) to
// the label recorded when a sequence is forced into a named template.
var forcedLabels = map[string]string{
	"rfam":           "Rfam",
	"crw":            "CRW",
	"ribovision_ssu": "RiboVision",
	"ribovision_lsu": "RiboVision",
	"rnasep":         "RNAse P database",
	"gtrnadb":        "GtRNAdb",
}

// SourceLabel resolves the label for one stage row. Unknown combinations
// fall back to the raw status token.
func SourceLabel(stage string, st hits.Status) string {
	if m, ok := sourceLabels[stage]; ok {
		if label, ok := m[st]; ok {
			return label
		}
	}
	return string(st)
}

// TSVPath is the final metadata table location under an output folder.
func TSVPath(outputDir string) string {
	return filepath.Join(outputDir, "results", "tsv", "metadata.tsv")
}

// Aggregate rewrites and concatenates every stage's hits artifact, in the
// given stage priority order, into results/tsv/metadata.tsv. Stages whose
// artifact is missing are skipped. Re-running over the same stage outputs
// produces a byte-identical table.
func Aggregate(outputDir string, stageNames []string) error {
	out := TSVPath(outputDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	for _, stage := range stageNames {
		recs, err := hits.ReadFile(filepath.Join(outputDir, stage, hits.FileName))
		if err != nil {
			_ = fh.Close()
			return fmt.Errorf("aggregate %s: %w", stage, err)
		}
		for _, r := range recs {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
				r.SequenceID, r.ModelID, SourceLabel(stage, r.Status)); err != nil {
				_ = fh.Close()
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// AppendForced appends one row for a forced-template run. Forced runs are
// additive: they never rewrite rows produced by a cascade.
func AppendForced(outputDir, seqID, modelID, modelType string) error {
	if err := os.MkdirAll(filepath.Dir(TSVPath(outputDir)), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(TSVPath(outputDir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	label, ok := forcedLabels[modelType]
	if !ok {
		label = modelType
	}
	if _, err := fmt.Fprintf(fh, "%s\t%s\t%s\n", seqID, modelID, label); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
