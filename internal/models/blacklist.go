// internal/models/blacklist.go
package models

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"r2dt/internal/config"
)

// Blacklisted lists the generic families that must not be drawn: rRNA
// families handled by the dedicated libraries, plus families with no
// conserved secondary structure. The list ships with the data directory.
func Blacklisted(cfg *config.Config) ([]string, error) {
	path := filepath.Join(cfg.DataDir, "rfam", "blacklist.txt")
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var out []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		acc := strings.TrimSpace(sc.Text())
		if acc == "" || strings.HasPrefix(acc, "#") {
			continue
		}
		out = append(out, acc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// HasStructure reports whether a generic family may be drawn.
func HasStructure(cfg *config.Config, acc string) (bool, error) {
	black, err := Blacklisted(cfg)
	if err != nil {
		return false, err
	}
	for _, b := range black {
		if b == acc {
			return false, nil
		}
	}
	return true, nil
}
