// Package pipeline sequences the end-to-end run: input validation,
// preprocessing (ontology parse, bulk bibcode resolution, work assignment),
// parallel extraction, and export. Fatal failures stop the run; everything
// per-item is handled inside the phases.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/scixmuse/mentions/pkg/assign"
	"github.com/scixmuse/mentions/pkg/bibindex"
	"github.com/scixmuse/mentions/pkg/export"
	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/ontology"
)

// PreprocessedDirName is the subdirectory of the output dir holding the
// intermediate JSON artifacts.
const PreprocessedDirName = "preprocessed"

// ManifestName is the per-run manifest filename.
const ManifestName = "run.json"

// PreprocessStats summarizes phase 1.
type PreprocessStats struct {
	Terms           int `json:"terms"`
	UniqueBibcodes  int `json:"unique_bibcodes"`
	Resolved        int `json:"resolved"`
	Unresolved      int `json:"unresolved"`
	Files           int `json:"files"`
	Assignments     int `json:"assignments"`
	DurationSeconds int `json:"duration_seconds"`
}

// ExtractStats summarizes phase 2.
type ExtractStats struct {
	Workers           int    `json:"workers"`
	FilesProcessed    int64  `json:"files_processed"`
	FilesFailed       int64  `json:"files_failed"`
	AssignmentsFailed int64  `json:"assignments_failed"`
	Results           int64  `json:"results"`
	Artifact          string `json:"artifact"`
	DurationSeconds   int    `json:"duration_seconds"`
}

// Manifest records what one run did. Written to <output>/run.json.
type Manifest struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Preprocess PreprocessStats `json:"preprocess"`
	Extract    ExtractStats    `json:"extract"`
	Exports    []string        `json:"exports,omitempty"`
}

// Pipeline executes one run. No state survives between runs; identical
// inputs produce identical outputs modulo result ordering.
type Pipeline struct {
	cfg   *Config
	runID string
}

// New creates a pipeline for the given configuration.
func New(cfg *Config) *Pipeline {
	return &Pipeline{cfg: cfg, runID: uuid.NewString()}
}

// RunID returns the identifier attached to this run's logs and manifest.
func (p *Pipeline) RunID() string { return p.runID }

func (p *Pipeline) preprocessedDir() string {
	return filepath.Join(p.cfg.OutputDir, PreprocessedDirName)
}

// ArtifactPath returns where the columnar artifact is written.
func (p *Pipeline) ArtifactPath() string {
	return filepath.Join(p.cfg.OutputDir, extract.ArtifactName)
}

// Run executes the configured phases.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := log.With().Str("run_id", p.runID).Logger()

	if err := p.cfg.Validate(); err != nil {
		return err
	}
	if p.cfg.DryRun {
		logger.Info().Msg("dry run: inputs validated")
		return nil
	}

	start := time.Now()
	manifest := Manifest{RunID: p.runID, StartedAt: start.UTC()}

	if p.cfg.SkipPreprocessing {
		logger.Info().Str("dir", p.preprocessedDir()).Msg("reusing preprocessing artifacts")
	} else {
		stats, err := p.preprocess()
		if err != nil {
			return err
		}
		manifest.Preprocess = stats
	}
	if p.cfg.PreprocessingOnly {
		logger.Info().Msg("preprocessing-only mode, stopping here")
		return p.writeManifest(&manifest)
	}

	extractStats, err := p.extract(ctx)
	if err != nil {
		return err
	}
	manifest.Extract = extractStats

	exports, err := p.export()
	if err != nil {
		return err
	}
	manifest.Exports = exports

	if err := p.writeManifest(&manifest); err != nil {
		return err
	}

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int64("results", manifest.Extract.Results).
		Msg("pipeline completed")
	return nil
}

// preprocess runs phase 1 and persists the intermediate artifacts.
func (p *Pipeline) preprocess() (PreprocessStats, error) {
	start := time.Now()
	var stats PreprocessStats

	terms, termBibcodes, err := ontology.Parse(p.cfg.OntologyPath)
	if err != nil {
		return stats, err
	}
	stats.Terms = len(terms)

	unique := termBibcodes.UniqueBibcodes()
	stats.UniqueBibcodes = len(unique)

	idx, err := bibindex.Open(bibindex.DefaultConfig(p.cfg.IndexDir))
	if err != nil {
		return stats, err
	}
	defer idx.Close()

	resolved, dropped, err := idx.ResolveAll(unique)
	if err != nil {
		return stats, fmt.Errorf("resolve bibcodes: %w", err)
	}
	stats.Resolved = len(resolved)
	stats.Unresolved = dropped

	assignments := assign.Build(resolved, termBibcodes)
	stats.Files = len(assignments)
	stats.Assignments = assignments.Total()

	if err := assign.Save(p.preprocessedDir(), terms, termBibcodes, assignments); err != nil {
		return stats, err
	}

	stats.DurationSeconds = int(time.Since(start).Seconds())
	log.Info().
		Int("terms", stats.Terms).
		Int("unique_bibcodes", stats.UniqueBibcodes).
		Int("resolved", stats.Resolved).
		Int("unresolved", stats.Unresolved).
		Int("files", stats.Files).
		Int("assignments", stats.Assignments).
		Msg("preprocessing complete")
	return stats, nil
}

// extract runs phase 2: load the intermediate artifacts, drive the worker
// pool, persist the columnar artifact.
func (p *Pipeline) extract(ctx context.Context) (ExtractStats, error) {
	start := time.Now()
	var stats ExtractStats

	terms, err := assign.LoadTerms(p.preprocessedDir())
	if err != nil {
		return stats, err
	}
	assignments, err := assign.LoadAssignments(p.preprocessedDir())
	if err != nil {
		return stats, err
	}

	engine := extract.NewEngine(p.cfg.CorpusRoot, p.cfg.Workers, p.cfg.WindowWords)
	stats.Workers = engine.Workers()

	results, engineStats, err := engine.Run(ctx, assignments, terms)
	if err != nil {
		return stats, err
	}
	stats.FilesProcessed = engineStats.FilesProcessed
	stats.FilesFailed = engineStats.FilesFailed
	stats.AssignmentsFailed = engineStats.AssignmentsFailed
	stats.Results = engineStats.Results

	artifactPath := p.ArtifactPath()
	if err := extract.WriteArtifact(artifactPath, results); err != nil {
		return stats, err
	}
	stats.Artifact = artifactPath
	stats.DurationSeconds = int(time.Since(start).Seconds())
	return stats, nil
}

// export runs phase 3 over the artifact just written.
func (p *Pipeline) export() ([]string, error) {
	if !p.cfg.ExportCSV && !p.cfg.CSVPerTerm {
		return nil, nil
	}

	rows, err := extract.ReadArtifact(p.ArtifactPath())
	if err != nil {
		return nil, err
	}

	exportDir := filepath.Join(p.cfg.OutputDir, "exports")
	var written []string

	if p.cfg.ExportCSV {
		path, err := export.WriteCSV(filepath.Join(exportDir, "software_mentions_all.csv"), rows, p.cfg.Compress)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if p.cfg.CSVPerTerm {
		paths, err := export.WritePerTermCSVs(filepath.Join(exportDir, "csvs_by_term"), rows, p.cfg.Compress)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}

	summaryPath := filepath.Join(exportDir, "summary_statistics.json")
	if _, err := export.WriteSummary(summaryPath, rows); err != nil {
		return written, err
	}
	written = append(written, summaryPath)
	return written, nil
}

func (p *Pipeline) writeManifest(m *Manifest) error {
	m.FinishedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(p.cfg.OutputDir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
