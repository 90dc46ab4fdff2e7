package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds one run's settings. Flags override anything loaded from a
// YAML file.
type Config struct {
	OntologyPath string `yaml:"ontology"`
	IndexDir     string `yaml:"index"`
	CorpusRoot   string `yaml:"corpus"`
	OutputDir    string `yaml:"output"`
	Workers      int    `yaml:"workers"`
	WindowWords  int    `yaml:"window"`
	ExportCSV    bool   `yaml:"export_csv"`
	CSVPerTerm   bool   `yaml:"csv_per_term"`
	Compress     bool   `yaml:"compress"`

	SkipPreprocessing bool `yaml:"-"`
	PreprocessingOnly bool `yaml:"-"`
	DryRun            bool `yaml:"-"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func requireFile(path, what string) error {
	if path == "" {
		return fmt.Errorf("%s path is required", what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found at %s: %w", what, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s at %s is a directory, expected a file", what, path)
	}
	return nil
}

func requireDir(path, what string) error {
	if path == "" {
		return fmt.Errorf("%s path is required", what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found at %s: %w", what, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s at %s is not a directory", what, path)
	}
	return nil
}

// Validate checks the fatal preconditions: the paths without which no useful
// work can happen. Per-item problems (unresolved codes, bad lines) are not
// validation concerns.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if c.SkipPreprocessing {
		if err := requireDir(filepath.Join(c.OutputDir, PreprocessedDirName), "preprocessing artifacts"); err != nil {
			return fmt.Errorf("run without --skip-preprocessing first: %w", err)
		}
	} else {
		if err := requireFile(c.OntologyPath, "ontology"); err != nil {
			return err
		}
		if err := requireDir(c.IndexDir, "location index"); err != nil {
			return err
		}
	}

	if !c.PreprocessingOnly {
		if err := requireDir(c.CorpusRoot, "corpus root"); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", c.OutputDir, err)
	}
	return nil
}
