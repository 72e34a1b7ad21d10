package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"r2dt/internal/config"
)

func TestBlacklisted(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	// no blacklist file installed: nothing is excluded
	black, err := Blacklisted(cfg)
	require.NoError(t, err)
	require.Empty(t, black)

	dir := filepath.Join(cfg.DataDir, "rfam")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	body := "# rRNA families\nRF00002\nRF00001\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blacklist.txt"), []byte(body), 0o644))

	black, err = Blacklisted(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"RF00001", "RF00002"}, black)

	ok, err := HasStructure(cfg, "RF00001")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = HasStructure(cfg, "RF00162")
	require.NoError(t, err)
	require.True(t, ok)
}
