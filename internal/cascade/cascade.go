// internal/cascade/cascade.go

// Package cascade runs the template-selection pipeline: stages are tried
// in fixed priority order, each stage sees only the sequences no earlier
// stage claimed, and every claimed sequence is dispatched to the renderer
// as soon as its stage finishes.
package cascade

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"r2dt/internal/config"
	"r2dt/internal/fasta"
	"r2dt/internal/hits"
	"r2dt/internal/hitset"
	"r2dt/internal/metadata"
	"r2dt/internal/render"
	"r2dt/internal/results"
	"r2dt/internal/thumbnail"
	"r2dt/internal/tools"
)

// ClassifyFunc runs one stage's classifier over fastaPath and returns the
// normalized hit records. An empty result is a normal "nothing matched"
// outcome.
type ClassifyFunc func(ctx context.Context, fastaPath, stageDir string) ([]hits.Record, error)

// Stage describes one cascade step. Priority is positional: stages run in
// slice order and earlier stages claim first.
type Stage struct {
	Name      string // stage directory name under the output folder
	RenderTag string // library tag passed to the renderer
	Classify  ClassifyFunc
}

// Orchestrator owns one cascade run. Stages strictly follow slice order;
// no stage starts before the previous stage's hits are fully folded into
// the claimed set.
type Orchestrator struct {
	Stages   []Stage
	Renderer render.Renderer
	Runner   tools.Runner
	Cfg      *config.Config
	Log      *zap.Logger

	RenderOpts render.Options
}

// Summary reports what each stage claimed and what was left over.
type Summary struct {
	RunID     string
	ByStage   map[string][]hits.Record
	Claimed   hitset.Set
	Unclaimed hitset.Set
}

const subsetName = "subset.fasta"

// Run executes the full cascade over fastaInput, renders every hit,
// organises results and aggregates metadata. Stage classifier failures are
// cascade-recoverable: the stage is treated as having claimed nothing and
// later stages still get a chance at the unclaimed sequences.
func (o *Orchestrator) Run(ctx context.Context, fastaInput, outputDir string) (*Summary, error) {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log = log.With(zap.String("run", runID))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	ids, err := fasta.ScanIDs(fastaInput)
	if err != nil {
		return nil, fmt.Errorf("cascade: read input: %w", err)
	}
	all := hitset.New(ids...)
	log.Info("cascade start", zap.Int("sequences", all.Len()))

	subset := filepath.Join(outputDir, subsetName)
	if err := copyFile(fastaInput, subset); err != nil {
		return nil, err
	}
	if _, err := o.Runner.Run(ctx, tools.Command{
		Name: o.Cfg.Tools.Sfetch, Args: []string{"--index", subset},
	}); err != nil {
		return nil, fmt.Errorf("cascade: index input: %w", err)
	}

	sum := &Summary{RunID: runID, ByStage: make(map[string][]hits.Record)}
	claimed := hitset.New()

	for i, st := range o.Stages {
		remaining := all.Difference(claimed)
		if remaining.Len() == 0 {
			log.Info("all sequences claimed, skipping remaining stages",
				zap.String("next", st.Name))
			break
		}

		// Every stage works off the indexed subset copy. For the first
		// stage it is byte-identical to the input; the renderer's
		// per-sequence fetch needs the index either way.
		stageFasta := subset
		if i > 0 {
			if err := o.extractSubset(ctx, fastaInput, subset, remaining); err != nil {
				return nil, err
			}
		}

		stageDir := filepath.Join(outputDir, st.Name)
		log.Info("analysing sequences",
			zap.String("stage", st.Name), zap.Int("count", remaining.Len()))

		recs, err := st.Classify(ctx, stageFasta, stageDir)
		if err != nil {
			log.Warn("stage classifier failed, treating as zero hits",
				zap.String("stage", st.Name), zap.Error(err))
			recs = nil
		}

		for _, rec := range recs {
			opts := o.RenderOpts
			opts.Domain, opts.Isotype = rec.Domain, rec.Isotype
			opts.Start, opts.End = rec.Start, rec.End
			if err := o.Renderer.Draw(ctx, st.RenderTag, stageFasta, stageDir,
				rec.SequenceID, rec.ModelID, opts); err != nil {
				// The claim stands: claimed and successfully-rendered are
				// decoupled, the diagram is simply absent from results.
				log.Warn("render failed",
					zap.String("sequence", rec.SequenceID),
					zap.String("template", rec.ModelID),
					zap.Error(err))
			}
		}

		sum.ByStage[st.Name] = recs
		claimed = claimed.Union(hitset.Claimed(recs))
	}

	for _, st := range o.Stages {
		if err := results.Organise(filepath.Join(outputDir, st.Name), outputDir,
			thumbnail.Generate, log); err != nil {
			return nil, err
		}
	}
	if err := metadata.Aggregate(outputDir, stageNames(o.Stages)); err != nil {
		return nil, err
	}
	cleanupScratch(outputDir)

	sum.Claimed = claimed
	sum.Unclaimed = all.Difference(claimed)
	log.Info("cascade done",
		zap.Int("claimed", sum.Claimed.Len()),
		zap.Int("unclaimed", sum.Unclaimed.Len()))
	return sum, nil
}

// extractSubset overwrites the scratch subset file with the remaining
// sequences and reindexes it. Concurrent cascades over one output
// directory would race on this file; callers must serialize.
func (o *Orchestrator) extractSubset(ctx context.Context, fastaInput, subset string, remaining hitset.Set) error {
	idList := subset + ".txt"
	if err := fasta.WriteIDList(idList, remaining.Sorted()); err != nil {
		return err
	}
	if _, err := o.Runner.Run(ctx, tools.Command{
		Name: o.Cfg.Tools.Sfetch,
		Args: []string{"-o", subset, "-f", fastaInput, idList},
	}); err != nil {
		return fmt.Errorf("cascade: extract subset: %w", err)
	}
	if _, err := o.Runner.Run(ctx, tools.Command{
		Name: o.Cfg.Tools.Sfetch, Args: []string{"--index", subset},
	}); err != nil {
		return fmt.Errorf("cascade: index subset: %w", err)
	}
	return nil
}

func stageNames(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.Name
	}
	return names
}

func cleanupScratch(outputDir string) {
	matches, _ := filepath.Glob(filepath.Join(outputDir, subsetName+"*"))
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
