// internal/cascade/stages.go
package cascade

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"r2dt/internal/cmsearch"
	"r2dt/internal/config"
	"r2dt/internal/hits"
	"r2dt/internal/ribotyper"
	"r2dt/internal/tools"
	"r2dt/internal/trnascan"
)

// TRNAFallbackModel is the generic-family model that catches tRNAs the
// specialized classifier missed.
const TRNAFallbackModel = "RF00005"

// DefaultStages builds the production stage list, highest priority first.
// The order is a single data-driven list: generic families, then the
// ribosomal and RNase P libraries, then the two tRNA passes.
func DefaultStages(cfg *config.Config, runner tools.Runner, log *zap.Logger, skipFilters bool) []Stage {
	ribo := func(library string) ClassifyFunc {
		return func(ctx context.Context, fastaPath, stageDir string) ([]hits.Record, error) {
			return ribotyper.Run(ctx, fastaPath, stageDir, ribotyper.Config{
				Binary:      cfg.Tools.Ribotyper,
				Library:     cfg.LibraryDir(library),
				SkipFilters: skipFilters,
				Runner:      runner,
				Log:         log,
			})
		}
	}

	return []Stage{
		{Name: "rfam", RenderTag: "rfam", Classify: ribo("rfam")},
		{Name: "ribovision-ssu", RenderTag: "ssu", Classify: ribo("ribovision-ssu")},
		{Name: "crw", RenderTag: "crw", Classify: ribo("crw")},
		{Name: "ribovision-lsu", RenderTag: "lsu", Classify: ribo("ribovision-lsu")},
		{Name: "rnasep", RenderTag: "rnasep", Classify: ribo("rnasep")},
		{Name: "gtrnadb", RenderTag: "gtrnadb", Classify: func(ctx context.Context, fastaPath, stageDir string) ([]hits.Record, error) {
			return trnascan.Classify(ctx, fastaPath, stageDir, trnascan.Config{
				Binary: cfg.Tools.TRNAScan,
				Runner: runner,
				Log:    log,
			})
		}},
		{Name: TRNAFallbackModel, RenderTag: "rfam", Classify: func(ctx context.Context, fastaPath, stageDir string) ([]hits.Record, error) {
			return cmsearch.Search(ctx, fastaPath, stageDir, cmsearch.Config{
				Binary:  cfg.Tools.CMSearch,
				CMPath:  filepath.Join(cfg.LibraryDir("rfam"), TRNAFallbackModel+".cm"),
				ModelID: TRNAFallbackModel,
				Runner:  runner,
				Log:     log,
			})
		}},
	}
}

// StageNames returns the production stage directory names in priority
// order, for aggregation and results passes that run without a live
// orchestrator.
func StageNames() []string {
	return []string{
		"rfam",
		"ribovision-ssu",
		"crw",
		"ribovision-lsu",
		"rnasep",
		"gtrnadb",
		TRNAFallbackModel,
	}
}
