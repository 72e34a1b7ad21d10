// internal/app/stage.go
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"r2dt/internal/cascade"
	"r2dt/internal/fasta"
	"r2dt/internal/hits"
	"r2dt/internal/metadata"
	"r2dt/internal/models"
	"r2dt/internal/results"
	"r2dt/internal/ribotyper"
	"r2dt/internal/thumbnail"
	"r2dt/internal/tools"
	"r2dt/internal/trnascan"
)

// stageTags maps standalone stage names to renderer library tags.
var stageTags = map[string]string{
	"rfam":           "rfam",
	"ribovision-ssu": "ssu",
	"ribovision-lsu": "lsu",
	"crw":            "crw",
	"rnasep":         "rnasep",
}

// StageDraw runs one ribotyper-backed library standalone: classify every
// input sequence against the named library and render each hit into the
// output folder.
func StageDraw(ctx context.Context, stage, fastaInput, outputDir string, opts Options) error {
	tag, ok := stageTags[stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", stage)
	}
	e, err := newEnv(opts, stage)
	if err != nil {
		return err
	}
	if err := tools.CheckBinaries(e.cfg.Tools.Ribotyper, e.cfg.Tools.Traveler, e.cfg.Tools.Sfetch); err != nil {
		return err
	}
	if err := e.indexInput(ctx, fastaInput); err != nil {
		return err
	}

	stageDir := filepath.Join(outputDir, stage)
	recs, err := ribotyper.Run(ctx, fastaInput, stageDir, ribotyper.Config{
		Binary:      e.cfg.Tools.Ribotyper,
		Library:     e.cfg.LibraryDir(stage),
		SkipFilters: opts.SkipFilters,
		Runner:      e.runner,
		Log:         e.log,
	})
	if err != nil {
		return err
	}
	e.renderAll(ctx, tag, fastaInput, stageDir, recs, opts)
	return e.finishStage(outputDir, stageDir)
}

// GtRNAdbDraw runs the tRNA stage standalone. With an explicit domain and
// isotype every input sequence is forced into that single template;
// otherwise the classifier decides per sequence.
func GtRNAdbDraw(ctx context.Context, fastaInput, outputDir, domain, isotype string, opts Options) error {
	e, err := newEnv(opts, "gtrnadb")
	if err != nil {
		return err
	}
	if err := tools.CheckBinaries(e.cfg.Tools.TRNAScan, e.cfg.Tools.Traveler, e.cfg.Tools.Sfetch); err != nil {
		return err
	}
	if err := e.indexInput(ctx, fastaInput); err != nil {
		return err
	}

	stageDir := filepath.Join(outputDir, "gtrnadb")
	var recs []hits.Record
	if domain != "" && isotype != "" {
		ids, err := scanInputIDs(fastaInput)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(stageDir, 0o755); err != nil {
			return err
		}
		for _, id := range ids {
			recs = append(recs, hits.Record{
				SequenceID: id,
				ModelID:    domain + "_" + isotype,
				Status:     hits.Pass,
				Domain:     domain,
				Isotype:    isotype,
			})
		}
		if err := hits.WriteFile(filepath.Join(stageDir, hits.FileName), recs); err != nil {
			return err
		}
	} else {
		recs, err = trnascan.Classify(ctx, fastaInput, stageDir, trnascan.Config{
			Binary: e.cfg.Tools.TRNAScan,
			Runner: e.runner,
			Log:    e.log,
		})
		if err != nil {
			return err
		}
	}
	e.renderAll(ctx, "gtrnadb", fastaInput, stageDir, recs, opts)
	return e.finishStage(outputDir, stageDir)
}

// RfamDraw renders every input sequence against one generic family, after
// checking the family is drawable at all.
func RfamDraw(ctx context.Context, acc, fastaInput, outputDir string, opts Options) error {
	e, err := newEnv(opts, "rfam")
	if err != nil {
		return err
	}
	ok, err := models.HasStructure(e.cfg, acc)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s does not have a conserved secondary structure", acc)
	}
	if err := tools.CheckBinaries(e.cfg.Tools.Traveler, e.cfg.Tools.Sfetch); err != nil {
		return err
	}
	if err := e.indexInput(ctx, fastaInput); err != nil {
		return err
	}

	ids, err := scanInputIDs(fastaInput)
	if err != nil {
		return err
	}
	stageDir := filepath.Join(outputDir, "rfam")
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return err
	}
	var recs []hits.Record
	for _, id := range ids {
		recs = append(recs, hits.Record{SequenceID: id, ModelID: acc, Status: hits.Pass})
	}
	if err := hits.WriteFile(filepath.Join(stageDir, hits.FileName), recs); err != nil {
		return err
	}
	e.renderAll(ctx, "rfam", fastaInput, stageDir, recs, opts)
	return e.finishStage(outputDir, stageDir)
}

func (e *env) indexInput(ctx context.Context, fastaInput string) error {
	if _, err := e.runner.Run(ctx, tools.Command{
		Name: e.cfg.Tools.Sfetch, Args: []string{"--index", fastaInput},
	}); err != nil {
		return fmt.Errorf("index input: %w", err)
	}
	return nil
}

// renderAll draws every hit into the stage directory. A failed diagram is
// logged and skipped so one bad template cannot sink the whole batch.
func (e *env) renderAll(ctx context.Context, tag, fastaInput, stageDir string, recs []hits.Record, opts Options) {
	for _, rec := range recs {
		ro := opts.renderOptions()
		ro.Domain, ro.Isotype = rec.Domain, rec.Isotype
		ro.Start, ro.End = rec.Start, rec.End
		if err := e.renderer.Draw(ctx, tag, fastaInput, stageDir,
			rec.SequenceID, rec.ModelID, ro); err != nil {
			e.log.Warn("render failed",
				zap.String("sequence", rec.SequenceID),
				zap.String("template", rec.ModelID),
				zap.Error(err))
		}
	}
}

// finishStage moves diagrams into the final results layout and rebuilds
// the metadata table. Aggregation covers every known stage directory, not
// just the one that ran, so consecutive standalone commands into one
// output folder keep each other's rows.
func (e *env) finishStage(outputDir, stageDir string) error {
	if err := results.Organise(stageDir, outputDir, thumbnail.Generate, e.log); err != nil {
		return err
	}
	return metadata.Aggregate(outputDir, cascade.StageNames())
}

func scanInputIDs(fastaInput string) ([]string, error) {
	ids, err := fasta.ScanIDs(fastaInput)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no sequences in %s", fastaInput)
	}
	return ids, nil
}
