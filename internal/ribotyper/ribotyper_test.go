package ribotyper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"r2dt/internal/hits"
	"r2dt/internal/tools"
)

const report = `# ribotyper long output
1  seq1  PASS  SSU.bacteria  90.2  1  55  tmplA  -
2  seq1  PASS  SSU.bacteria  80.0  2  55  tmplB  MultipleHits
3  seq2  FAIL  -             -     -  -   -      *NoHits
`

func TestParseStrict(t *testing.T) {
	recs, err := ParseLongReport(strings.NewReader(report), false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "seq1", recs[0].SequenceID)
	require.Equal(t, "tmplA", recs[0].ModelID)
	require.Equal(t, hits.Pass, recs[0].Status)
}

func TestParseLenient(t *testing.T) {
	recs, err := ParseLongReport(strings.NewReader(report), true)
	require.NoError(t, err)
	// seq2's NoHits row is excluded, seq1's MultipleHits row is retained.
	require.Len(t, recs, 2)
	require.Equal(t, "tmplB", recs[1].ModelID)
}

func TestParseLenientKeepsFailRows(t *testing.T) {
	in := "4  seq3  FAIL  LSU.archaea  20.1  1  10  tmplC  LowScore\n"
	recs, err := ParseLongReport(strings.NewReader(in), true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, hits.Fail, recs[0].Status)
}

func TestParseEmptyReport(t *testing.T) {
	recs, err := ParseLongReport(strings.NewReader("# nothing matched\n"), false)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestParseMalformedRow(t *testing.T) {
	_, err := ParseLongReport(strings.NewReader("1 seq1 PASS\n"), false)
	require.Error(t, err)
}

// countingRunner fakes the classifier: it writes a canned long report into
// the stage directory and counts invocations.
type countingRunner struct {
	calls int
	body  string
}

func (c *countingRunner) Run(_ context.Context, cmd tools.Command) (tools.Result, error) {
	c.calls++
	outDir := cmd.Args[len(cmd.Args)-1]
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return tools.Result{}, err
	}
	return tools.Result{}, os.WriteFile(LongReportPath(outDir), []byte(c.body), 0o644)
}

func TestRunWritesHitsArtifact(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "rfam")
	runner := &countingRunner{body: report}

	recs, err := Run(context.Background(), "in.fasta", outDir, Config{
		Binary:  "ribotyper.pl",
		Library: "cms/rfam",
		Runner:  runner,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, 1, runner.calls)

	onDisk, err := hits.ReadFile(filepath.Join(outDir, hits.FileName))
	require.NoError(t, err)
	require.Equal(t, recs, onDisk)
}

func TestRunMemoizesByReportExistence(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "crw")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(LongReportPath(outDir), []byte(report), 0o644))

	runner := &countingRunner{body: "should not be written"}
	recs, err := Run(context.Background(), "in.fasta", outDir, Config{
		Binary:  "ribotyper.pl",
		Library: "cms/crw",
		Runner:  runner,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Zero(t, runner.calls, "existing report must skip the classifier")
}
