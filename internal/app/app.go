// internal/app/app.go

// Package app wires configuration, the external-tool runner, the renderer
// and the cascade together for each CLI subcommand.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"r2dt/internal/cascade"
	"r2dt/internal/config"
	"r2dt/internal/logging"
	"r2dt/internal/render"
	"r2dt/internal/tools"
)

// Options carries the flags shared by every drawing subcommand.
type Options struct {
	ConfigPath  string
	Constraint  bool
	Exclusion   string
	FoldType    string
	SkipFilters bool
}

func (o Options) renderOptions() render.Options {
	return render.Options{
		Constraint: o.Constraint,
		Exclusion:  o.Exclusion,
		FoldType:   o.FoldType,
	}
}

// env is the assembled runtime for one subcommand invocation.
type env struct {
	cfg      *config.Config
	runner   tools.Runner
	renderer render.Renderer
	log      *zap.Logger
}

func newEnv(opts Options, component string) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	log := logging.New(component)
	runner := tools.NewExecRunner(log)
	return &env{
		cfg:      cfg,
		runner:   runner,
		renderer: render.NewTraveler(cfg, runner, log),
		log:      log,
	}, nil
}

// Draw runs the full cascade over a sequence file.
func Draw(ctx context.Context, fastaInput, outputDir string, opts Options) error {
	e, err := newEnv(opts, "draw")
	if err != nil {
		return err
	}
	if err := tools.CheckBinaries(
		e.cfg.Tools.Ribotyper,
		e.cfg.Tools.TRNAScan,
		e.cfg.Tools.CMSearch,
		e.cfg.Tools.Traveler,
		e.cfg.Tools.Sfetch,
	); err != nil {
		return err
	}

	orc := &cascade.Orchestrator{
		Stages:     cascade.DefaultStages(e.cfg, e.runner, e.log, opts.SkipFilters),
		Renderer:   e.renderer,
		Runner:     e.runner,
		Cfg:        e.cfg,
		Log:        e.log,
		RenderOpts: opts.renderOptions(),
	}
	sum, err := orc.Run(ctx, fastaInput, outputDir)
	if err != nil {
		return err
	}
	if sum.Unclaimed.Len() > 0 {
		e.log.Info("sequences left unclaimed",
			zap.Strings("sequences", sum.Unclaimed.Sorted()))
	}
	return nil
}

// renderTags maps model types (catalog spelling) to renderer library tags.
var renderTags = map[string]string{
	"rfam":           "rfam",
	"ribovision_ssu": "ssu",
	"ribovision_lsu": "lsu",
	"crw":            "crw",
	"rnasep":         "rnasep",
	"gtrnadb":        "gtrnadb",
}

func tagForType(modelType string) (string, error) {
	tag, ok := renderTags[modelType]
	if !ok {
		return "", fmt.Errorf("no renderer for model type %q", modelType)
	}
	return tag, nil
}

// splitTRNAModel breaks a "<domain>_<isotype>" tRNA model ID apart.
func splitTRNAModel(modelID string) (domain, isotype string, ok bool) {
	parts := strings.SplitN(modelID, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
