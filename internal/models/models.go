// internal/models/models.go

// Package models reads the installed template catalog. Every library
// directory carries a modelinfo.txt descriptor listing its covariance
// models; the catalog drives `list-models` and forced-template lookup.
package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"r2dt/internal/config"
	"r2dt/internal/jsonutil"
)

// Model is one installed template.
type Model struct {
	ID          string `json:"model_id"`
	Library     string `json:"library"`
	Type        string `json:"model_type"`
	Description string `json:"description"`
}

// List returns every installed template in library priority order.
// Libraries that are not installed are skipped; a present but unreadable
// descriptor is an error.
func List(cfg *config.Config) ([]Model, error) {
	var out []Model
	for _, lib := range config.LibraryNames() {
		path := filepath.Join(cfg.LibraryDir(lib), "modelinfo.txt")
		fh, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("template library %s: %w", lib, err)
		}
		libModels, err := parseModelInfo(fh, lib)
		_ = fh.Close()
		if err != nil {
			return nil, fmt.Errorf("template library %s: %w", lib, err)
		}
		out = append(out, libModels...)
	}
	return out, nil
}

func parseModelInfo(fh *os.File, library string) ([]Model, error) {
	var out []Model
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		m := Model{
			ID:      f[0],
			Library: library,
			Type:    strings.ReplaceAll(library, "-", "_"),
		}
		if len(f) > 1 {
			m.Description = strings.Join(f[1:], " ")
		} else {
			m.Description = m.ID
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TypeOf resolves which library a model belongs to, for forcing sequences
// into a named template. The empty string means the model is not
// installed.
func TypeOf(cfg *config.Config, modelID string) (string, error) {
	all, err := List(cfg)
	if err != nil {
		return "", err
	}
	for _, m := range all {
		if m.ID == modelID {
			return m.Type, nil
		}
	}
	return "", nil
}

// CheckUniqueDescriptions reports templates whose descriptions collide:
// duplicate descriptions make the listing ambiguous for users picking a
// template by name.
func CheckUniqueDescriptions(ms []Model) error {
	seen := make(map[string]string, len(ms))
	for _, m := range ms {
		if prev, dup := seen[m.Description]; dup {
			return fmt.Errorf("duplicate template description %q (%s and %s)", m.Description, prev, m.ID)
		}
		seen[m.Description] = m.ID
	}
	return nil
}

// WriteJSON saves the catalog to the data directory as models.json.
func WriteJSON(cfg *config.Config, ms []Model) error {
	return jsonutil.WriteFile(filepath.Join(cfg.DataDir, "models.json"), ms)
}
