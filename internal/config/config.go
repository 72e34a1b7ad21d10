// internal/config/config.go

// Package config resolves the data directory, template library locations
// and the names of the external tools. Defaults match a standard install;
// a YAML file can override any of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Tools names the external binaries. Overriding these is mostly useful in
// containers where wrappers are installed under different names.
type Tools struct {
	Ribotyper string `yaml:"ribotyper"`
	TRNAScan  string `yaml:"trnascan"`
	CMSearch  string `yaml:"cmsearch"`
	Traveler  string `yaml:"traveler"`
	Sfetch    string `yaml:"sfetch"`
	RNAFold   string `yaml:"rnafold"`
}

type Config struct {
	DataDir string `yaml:"data_dir"`
	Tools   Tools  `yaml:"tools"`
}

// Default returns the built-in configuration. The data directory comes from
// $R2DT_DATA when set.
func Default() *Config {
	dataDir := os.Getenv("R2DT_DATA")
	if dataDir == "" {
		dataDir = "data"
	}
	return &Config{
		DataDir: dataDir,
		Tools: Tools{
			Ribotyper: "ribotyper.pl",
			TRNAScan:  "tRNAscan-SE",
			CMSearch:  "cmsearch",
			Traveler:  "traveler",
			Sfetch:    "esl-sfetch",
			RNAFold:   "RNAfold",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// CMLibrary is the root of all covariance-model template libraries.
func (c *Config) CMLibrary() string {
	return filepath.Join(c.DataDir, "cms")
}

// LibraryDir resolves a named template library under the CM library root.
func (c *Config) LibraryDir(name string) string {
	return filepath.Join(c.CMLibrary(), name)
}

// LibraryNames lists the installed template libraries in cascade priority
// order (highest first).
func LibraryNames() []string {
	return []string{
		"rfam",
		"ribovision-ssu",
		"crw",
		"ribovision-lsu",
		"rnasep",
		"gtrnadb",
	}
}
