// internal/app/force.go
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"r2dt/internal/metadata"
	"r2dt/internal/models"
	"r2dt/internal/results"
	"r2dt/internal/thumbnail"
	"r2dt/internal/tools"
)

// ForceDraw pushes every input sequence through one named template,
// bypassing classification entirely. The results are organised and a
// metadata row is appended per sequence, so forced runs compose with an
// earlier cascade over the same output folder.
func ForceDraw(ctx context.Context, modelID, fastaInput, outputDir string, opts Options) error {
	e, err := newEnv(opts, "force-draw")
	if err != nil {
		return err
	}
	modelType, err := models.TypeOf(e.cfg, modelID)
	if err != nil {
		return err
	}
	if modelType == "" {
		return fmt.Errorf("model %q not found, check the template catalog with list-models", modelID)
	}
	tag, err := tagForType(modelType)
	if err != nil {
		return err
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
	stageDir := filepath.Join(outputDir, strings.ReplaceAll(modelType, "_", "-"))

	for _, id := range ids {
		e.log.Info("visualising sequence with forced template",
			zap.String("sequence", id),
			zap.String("template", modelID),
			zap.String("library", modelType))

		ro := opts.renderOptions()
		if tag == "gtrnadb" {
			domain, isotype, ok := splitTRNAModel(modelID)
			if !ok {
				return fmt.Errorf("tRNA model %q must look like <domain>_<isotype>", modelID)
			}
			ro.Domain, ro.Isotype = domain, isotype
		}
		if err := e.renderer.Draw(ctx, tag, fastaInput, stageDir, id, modelID, ro); err != nil {
			e.log.Warn("render failed",
				zap.String("sequence", id),
				zap.String("template", modelID),
				zap.Error(err))
			continue
		}
		if err := metadata.AppendForced(outputDir, id, modelID, modelType); err != nil {
			return err
		}
	}
	return results.Organise(stageDir, outputDir, thumbnail.Generate, e.log)
}
