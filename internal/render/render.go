// internal/render/render.go

// Package render is the boundary to the external 2D layout engine. The
// cascade only ever talks to the Renderer interface; the exec-backed
// implementation assembles the tool invocation.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"r2dt/internal/config"
	"r2dt/internal/tools"
)

// Options are the optional rendering controls passed through to the layout
// engine. Domain/Isotype/Start/End are set for tRNA hits only.
type Options struct {
	Constraint bool   // fold unmatched insertions
	Exclusion  string // exclusion spec file
	FoldType   string // folding method for insertions

	Domain  string
	Isotype string
	Start   int
	End     int
}

// Renderer draws one sequence against one matched template. A failure is
// sequence-local: the caller logs it and keeps going.
type Renderer interface {
	Draw(ctx context.Context, tag, fastaInput, outDir, seqID, modelID string, opts Options) error
}

// Traveler invokes the external layout tool. It first extracts the target
// sequence with the indexed-fetch tool, then hands sequence and template to
// the layout engine, which leaves <seq>-<model>.colored.svg plus fasta and
// json companions in the stage directory.
type Traveler struct {
	Cfg    *config.Config
	Runner tools.Runner
	Log    *zap.Logger
}

func NewTraveler(cfg *config.Config, runner tools.Runner, log *zap.Logger) *Traveler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Traveler{Cfg: cfg, Runner: runner, Log: log}
}

// tagLibraries maps renderer tags to template library directories.
var tagLibraries = map[string]string{
	"rfam":    "rfam",
	"ssu":     "ribovision-ssu",
	"lsu":     "ribovision-lsu",
	"crw":     "crw",
	"rnasep":  "rnasep",
	"gtrnadb": "gtrnadb",
}

func (t *Traveler) Draw(ctx context.Context, tag, fastaInput, outDir, seqID, modelID string, opts Options) error {
	lib, ok := tagLibraries[tag]
	if !ok {
		return fmt.Errorf("render: unknown library tag %q", tag)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	seqFile := filepath.Join(outDir, seqID+".fasta")
	fetch := tools.Command{
		Name: t.Cfg.Tools.Sfetch,
		Args: []string{"-o", seqFile, fastaInput, seqID},
	}
	if opts.Start > 0 && opts.End > 0 {
		fetch.Args = []string{
			"-c", strconv.Itoa(opts.Start) + ".." + strconv.Itoa(opts.End),
			"-o", seqFile, fastaInput, seqID,
		}
	}
	if _, err := t.Runner.Run(ctx, fetch); err != nil {
		return fmt.Errorf("render: fetch %s: %w", seqID, err)
	}

	args := []string{
		"--template", filepath.Join(t.Cfg.LibraryDir(lib), modelID),
		"--sequence", seqFile,
		"--output", filepath.Join(outDir, seqID+"-"+modelID),
	}
	if opts.Constraint {
		args = append(args, "--constraint")
		args = append(args, "--fold-tool", t.Cfg.Tools.RNAFold)
	}
	if opts.Exclusion != "" {
		args = append(args, "--exclusion", opts.Exclusion)
	}
	if opts.FoldType != "" {
		args = append(args, "--fold-type", opts.FoldType)
	}
	if opts.Domain != "" && opts.Isotype != "" {
		args = append(args, "--domain", opts.Domain, "--isotype", opts.Isotype)
	}

	cmd := tools.Command{Name: t.Cfg.Tools.Traveler, Args: args}
	t.Log.Info("rendering",
		zap.String("sequence", seqID),
		zap.String("template", modelID),
		zap.String("library", lib))
	if _, err := t.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("render %s with %s: %w", seqID, modelID, err)
	}
	return nil
}
