package cascade

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"r2dt/internal/config"
	"r2dt/internal/hits"
	"r2dt/internal/metadata"
	"r2dt/internal/render"
	"r2dt/internal/tools"
)

type nopRunner struct{}

func (nopRunner) Run(context.Context, tools.Command) (tools.Result, error) {
	return tools.Result{}, nil
}

type fakeRenderer struct {
	drawn   []string
	inputs  []string
	failFor string
}

func (f *fakeRenderer) Draw(_ context.Context, tag, fastaInput, _, seqID, modelID string, _ render.Options) error {
	f.drawn = append(f.drawn, tag+"/"+seqID+"/"+modelID)
	f.inputs = append(f.inputs, fastaInput)
	if seqID == f.failFor {
		return errors.New("layout engine crashed")
	}
	return nil
}

// claimStage builds a stage whose classifier claims the given sequences
// and counts how often it is invoked.
func claimStage(t *testing.T, name string, count *int, claims ...string) Stage {
	t.Helper()
	return Stage{
		Name:      name,
		RenderTag: "rfam",
		Classify: func(_ context.Context, _, stageDir string) ([]hits.Record, error) {
			*count++
			require.NoError(t, os.MkdirAll(stageDir, 0o755))
			var recs []hits.Record
			for _, id := range claims {
				recs = append(recs, hits.Record{SequenceID: id, ModelID: "tmpl-" + name, Status: hits.Pass})
			}
			require.NoError(t, hits.WriteFile(filepath.Join(stageDir, hits.FileName), recs))
			return recs, nil
		},
	}
}

func writeInput(t *testing.T, dir string, ids ...string) string {
	t.Helper()
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(">" + id + " test\nACGUACGU\n")
	}
	path := filepath.Join(dir, "input.fasta")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newOrchestrator(stages []Stage, r render.Renderer) *Orchestrator {
	return &Orchestrator{
		Stages:   stages,
		Renderer: r,
		Runner:   nopRunner{},
		Cfg:      config.Default(),
		Log:      zap.NewNop(),
	}
}

func TestCascadePartitionScenario(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B", "C")
	outDir := filepath.Join(dir, "out")

	var c1, c2, c3 int
	stages := []Stage{
		claimStage(t, "rfam", &c1, "A"),
		claimStage(t, "crw", &c2, "B"),
		claimStage(t, "rnasep", &c3),
	}
	rend := &fakeRenderer{}

	sum, err := newOrchestrator(stages, rend).Run(context.Background(), input, outDir)
	require.NoError(t, err)

	require.Equal(t, 1, c1)
	require.Equal(t, 1, c2)
	require.Equal(t, 1, c3)

	require.Equal(t, []string{"C"}, sum.Unclaimed.Sorted())
	require.ElementsMatch(t, []string{"A", "B"}, sum.Claimed.Sorted())

	// union of claims plus remainder partitions the input
	union := sum.Claimed.Union(sum.Unclaimed)
	require.ElementsMatch(t, []string{"A", "B", "C"}, union.Sorted())

	// metadata has exactly 2 rows
	raw, err := os.ReadFile(metadata.TSVPath(outDir))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "A\ttmpl-rfam\tRfam", lines[0])

	// scratch subset files are gone
	left, err := filepath.Glob(filepath.Join(outDir, "subset*"))
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestCascadeShortCircuit(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B")
	outDir := filepath.Join(dir, "out")

	var c1, c2, c3 int
	stages := []Stage{
		claimStage(t, "rfam", &c1, "A", "B"),
		claimStage(t, "crw", &c2, "A"),
		claimStage(t, "rnasep", &c3),
	}

	sum, err := newOrchestrator(stages, &fakeRenderer{}).Run(context.Background(), input, outDir)
	require.NoError(t, err)
	require.Zero(t, sum.Unclaimed.Len())

	// once the working set is empty no further classifier runs
	require.Equal(t, 1, c1)
	require.Zero(t, c2)
	require.Zero(t, c3)
}

func TestCascadeStageFailureIsRecoverable(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B")
	outDir := filepath.Join(dir, "out")

	var c2 int
	failing := Stage{
		Name:      "rfam",
		RenderTag: "rfam",
		Classify: func(context.Context, string, string) ([]hits.Record, error) {
			return nil, errors.New("classifier blew up")
		},
	}
	stages := []Stage{failing, claimStage(t, "crw", &c2, "A", "B")}

	sum, err := newOrchestrator(stages, &fakeRenderer{}).Run(context.Background(), input, outDir)
	require.NoError(t, err, "stage failure must not abort the cascade")
	require.Equal(t, 1, c2, "later stages still get the unclaimed sequences")
	require.Zero(t, sum.Unclaimed.Len())
}

func TestCascadeRenderFailureKeepsClaim(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B")
	outDir := filepath.Join(dir, "out")

	var c1, c2 int
	stages := []Stage{
		claimStage(t, "rfam", &c1, "A"),
		claimStage(t, "crw", &c2, "B"),
	}
	rend := &fakeRenderer{failFor: "A"}

	sum, err := newOrchestrator(stages, rend).Run(context.Background(), input, outDir)
	require.NoError(t, err)

	// A's render failed but A stays claimed: stage 2 only saw B.
	require.True(t, sum.Claimed.Contains("A"))
	require.Len(t, rend.drawn, 2)

	raw, err := os.ReadFile(metadata.TSVPath(outDir))
	require.NoError(t, err)
	require.Contains(t, string(raw), "A\ttmpl-rfam\tRfam")
}

func TestCascadeSubsetNarrows(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B", "C")
	outDir := filepath.Join(dir, "out")

	var got []string
	var c1 int
	probe := Stage{
		Name:      "crw",
		RenderTag: "crw",
		Classify: func(_ context.Context, fastaPath, stageDir string) ([]hits.Record, error) {
			require.NoError(t, os.MkdirAll(stageDir, 0o755))
			require.NoError(t, hits.WriteFile(filepath.Join(stageDir, hits.FileName), nil))
			raw, err := os.ReadFile(fastaPath + ".txt")
			require.NoError(t, err)
			got = strings.Fields(string(raw))
			return nil, nil
		},
	}
	stages := []Stage{claimStage(t, "rfam", &c1, "B"), probe}

	_, err := newOrchestrator(stages, &fakeRenderer{}).Run(context.Background(), input, outDir)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, got, "stage 2 must receive only unclaimed sequences")
}

// indexingRunner records every file handed to the sequence tool's --index
// mode, mimicking its index-before-fetch contract.
type indexingRunner struct {
	indexed map[string]bool
}

func (r *indexingRunner) Run(_ context.Context, cmd tools.Command) (tools.Result, error) {
	if len(cmd.Args) == 2 && cmd.Args[0] == "--index" {
		if r.indexed == nil {
			r.indexed = make(map[string]bool)
		}
		r.indexed[cmd.Args[1]] = true
	}
	return tools.Result{}, nil
}

func TestCascadeFirstStageRendersFromIndexedFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "A", "B")
	outDir := filepath.Join(dir, "out")

	var c1 int
	stages := []Stage{claimStage(t, "rfam", &c1, "A", "B")}
	rend := &fakeRenderer{}
	runner := &indexingRunner{}

	orc := newOrchestrator(stages, rend)
	orc.Runner = runner
	_, err := orc.Run(context.Background(), input, outDir)
	require.NoError(t, err)

	// The renderer fetches sequences out of the file it is handed, which
	// only works on a file the cascade indexed first.
	require.Len(t, rend.inputs, 2)
	for _, in := range rend.inputs {
		require.True(t, runner.indexed[in],
			"stage fasta %s was never indexed, per-sequence fetch would fail", in)
	}
}

func TestDefaultStagesOrder(t *testing.T) {
	stages := DefaultStages(config.Default(), nopRunner{}, zap.NewNop(), false)
	require.Equal(t, StageNames(), stageNames(stages))
	require.Equal(t, "rfam", stages[0].Name)
	require.Equal(t, TRNAFallbackModel, stages[len(stages)-1].Name)
}
