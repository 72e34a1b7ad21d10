package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"r2dt/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	write := func(lib, body string) {
		dir := cfg.LibraryDir(lib)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "modelinfo.txt"), []byte(body), 0o644))
	}
	write("rfam", "# model cmfile len\nRF00005 RF00005.cm 71 tRNA\nRF00162 RF00162.cm 108 SAM riboswitch\n")
	write("ribovision-ssu", "HS_SSU HS_SSU.cm 1869 Human small subunit\n")
	return cfg
}

func TestListPriorityOrder(t *testing.T) {
	ms, err := List(testConfig(t))
	require.NoError(t, err)
	require.Len(t, ms, 3)
	require.Equal(t, "RF00005", ms[0].ID)
	require.Equal(t, "rfam", ms[0].Library)
	require.Equal(t, "tRNA", ms[0].Description)
	require.Equal(t, "ribovision_ssu", ms[2].Type)
}

func TestTypeOf(t *testing.T) {
	cfg := testConfig(t)
	typ, err := TypeOf(cfg, "HS_SSU")
	require.NoError(t, err)
	require.Equal(t, "ribovision_ssu", typ)

	typ, err = TypeOf(cfg, "nope")
	require.NoError(t, err)
	require.Empty(t, typ, "unknown model resolves to empty type")
}

func TestCheckUniqueDescriptions(t *testing.T) {
	ok := []Model{{ID: "a", Description: "x"}, {ID: "b", Description: "y"}}
	require.NoError(t, CheckUniqueDescriptions(ok))

	dup := []Model{{ID: "a", Description: "x"}, {ID: "b", Description: "x"}}
	require.Error(t, CheckUniqueDescriptions(dup))
}

func TestWriteJSON(t *testing.T) {
	cfg := testConfig(t)
	ms, err := List(cfg)
	require.NoError(t, err)
	require.NoError(t, WriteJSON(cfg, ms))

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, "models.json"))
	require.NoError(t, err)
	var back []Model
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, 3)
}
