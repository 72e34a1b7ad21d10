package trnascan

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

const report = `Sequence		tRNA	Bounds	tRNA	Anti	Intron Bounds	Inf
Name    	tRNA #	Begin	End	Type	Codon	Begin	End	Score
--------	------	-----	----	----	-----	-----	----	------
seqX    	1	3	75	Thr	AGT	0	0	82.4
seqX    	2	90	161	Thr	AGT	0	0	40.1
seqY    	1	1	72	Undet	???	0	0	30.0
seqZ    	1	2	74	Gly	GCC	0	0	77.9
`

func TestParseOutput(t *testing.T) {
	recs, err := ParseOutput(strings.NewReader(report), "E")
	require.NoError(t, err)
	// seqX keeps its first call only; seqY's undetermined isotype is skipped.
	require.Len(t, recs, 2)

	require.Equal(t, "seqX", recs[0].SequenceID)
	require.Equal(t, "E_Thr", recs[0].ModelID)
	require.Equal(t, hits.Pass, recs[0].Status)
	require.Equal(t, "Thr", recs[0].Isotype)
	require.Equal(t, 3, recs[0].Start)
	require.Equal(t, 75, recs[0].End)

	require.Equal(t, "E_Gly", recs[1].ModelID)
}

type fakeScanner struct {
	calls   int
	perDom  map[string]string
}

func (f *fakeScanner) Run(_ context.Context, cmd tools.Command) (tools.Result, error) {
	f.calls++
	var outFile, domain string
	for i, a := range cmd.Args {
		if a == "-o" {
			outFile = cmd.Args[i+1]
		}
		if a == "-E" || a == "-B" || a == "-A" {
			domain = strings.TrimPrefix(a, "-")
		}
	}
	return tools.Result{}, os.WriteFile(outFile, []byte(f.perDom[domain]), 0o644)
}

func TestClassifyFirstDomainWins(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "gtrnadb")
	header := "Sequence\nName\n----\n"
	runner := &fakeScanner{perDom: map[string]string{
		"E": header + "seq1\t1\t3\t75\tThr\tAGT\t0\t0\t82.4\n",
		"B": header + "seq1\t1\t3\t75\tAla\tAGC\t0\t0\t70.0\nseq2\t1\t1\t72\tGly\tGCC\t0\t0\t66.0\n",
		"A": header,
	}}

	recs, err := Classify(context.Background(), "in.fasta", outDir, Config{
		Binary: "tRNAscan-SE",
		Runner: runner,
	})
	require.NoError(t, err)
	require.Equal(t, 3, runner.calls)
	require.Len(t, recs, 2)

	// seq1 was claimed by the eukaryotic pass; the bacterial call is ignored.
	require.Equal(t, "E_Thr", recs[0].ModelID)
	require.Equal(t, "B_Gly", recs[1].ModelID)

	onDisk, err := hits.ReadFile(filepath.Join(outDir, hits.FileName))
	require.NoError(t, err)
	require.Len(t, onDisk, 2)
}
