// internal/results/results.go

// Package results moves per-stage artifacts into the final
// results/{svg,thumbnail,fasta,json,tsv} layout and derives a thumbnail
// for every colored diagram on the way.
package results

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dirs returns the final result folders under an output directory, creating
// them as needed.
func Dirs(outputDir string) (svg, thumb, fasta, jsons string, err error) {
	dest := filepath.Join(outputDir, "results")
	svg = filepath.Join(dest, "svg")
	thumb = filepath.Join(dest, "thumbnail")
	fasta = filepath.Join(dest, "fasta")
	jsons = filepath.Join(dest, "json")
	for _, d := range []string{dest, svg, thumb, fasta, jsons} {
		if err = os.MkdirAll(d, 0o755); err != nil {
			return
		}
	}
	return
}

// Generator turns a diagram document into a thumbnail document.
type Generator func(image, description string) string

// Organise processes one stage directory: a thumbnail is generated for each
// colored SVG, then diagrams, thumbnails and the per-sequence fasta/json
// companions move under results/. A stage that produced no diagrams leaves
// its companion files in place, matching the historical layout.
//
// Thumbnail generation is embarrassingly parallel and fans out over a
// bounded worker group.
func Organise(stageDir, outputDir string, gen Generator, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	svgDir, thumbDir, fastaDir, jsonDir, err := Dirs(outputDir)
	if err != nil {
		return err
	}

	svgs, err := filepath.Glob(filepath.Join(stageDir, "*.colored.svg"))
	if err != nil {
		return err
	}
	if len(svgs) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, svg := range svgs {
		svg := svg
		g.Go(func() error {
			raw, err := os.ReadFile(svg)
			if err != nil {
				return err
			}
			thumb := gen(string(raw), svg)
			dst := strings.Replace(svg, ".colored.", ".thumbnail.", 1)
			return os.WriteFile(dst, []byte(thumb), 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	moves := []struct {
		glob string
		dst  string
	}{
		{"*.colored.svg", svgDir},
		{"*.thumbnail.svg", thumbDir},
		{"*.fasta", fastaDir},
		{"*.json", jsonDir},
	}
	for _, m := range moves {
		files, err := filepath.Glob(filepath.Join(stageDir, m.glob))
		if err != nil {
			return err
		}
		for _, f := range files {
			dst := filepath.Join(m.dst, filepath.Base(f))
			if err := moveFile(f, dst); err != nil {
				return err
			}
			log.Debug("moved result", zap.String("file", dst))
		}
	}
	return nil
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// cross-device fallback
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
