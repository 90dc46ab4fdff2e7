package extract

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/scixmuse/mentions/pkg/assign"
	"github.com/scixmuse/mentions/pkg/match"
	"github.com/scixmuse/mentions/pkg/ontology"
)

// MaxWorkers caps the pool regardless of host CPU count.
const MaxWorkers = 32

// Stats accumulates per-run counters across workers.
type Stats struct {
	FilesProcessed       int64
	FilesFailed          int64
	AssignmentsProcessed int64
	AssignmentsFailed    int64
	Results              int64
}

// Engine drives the parallel extraction: file-level work items dispatched
// across a fixed worker pool, each worker owning the file handle for its
// current item.
type Engine struct {
	corpusRoot  string
	workers     int
	windowWords int
}

// NewEngine creates an engine over corpusRoot. workers <= 0 selects the host
// CPU count capped at MaxWorkers.
func NewEngine(corpusRoot string, workers, windowWords int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &Engine{corpusRoot: corpusRoot, workers: workers, windowWords: windowWords}
}

// Workers reports the effective pool size.
func (e *Engine) Workers() int { return e.workers }

type fileWork struct {
	filename    string
	assignments []assign.WorkAssignment
}

// Run processes every assignment and returns the merged result set. Ordering
// across files is unspecified; within a file, results follow byte-offset
// order. Per-assignment and per-file failures are logged and skipped; only a
// cancelled context aborts the run.
func (e *Engine) Run(ctx context.Context, assignments assign.FileAssignments, terms ontology.TermTable) ([]Result, Stats, error) {
	patterns := match.Compile(terms)
	processor := NewProcessor(terms, patterns, e.windowWords)

	log.Info().
		Int("workers", e.workers).
		Int("files", len(assignments)).
		Int("assignments", assignments.Total()).
		Int("patterns", patterns.Len()).
		Msg("starting extraction")

	jobs := make(chan fileWork, e.workers)
	partials := make(chan []Result, e.workers)

	var stats Stats
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for work := range jobs {
				results := e.processFile(ctx, workerID, processor, work, &stats)
				if len(results) > 0 {
					partials <- results
				}
			}
		}(i)
	}

	// Collector owns the merged slice; single appender, no locking needed.
	var all []Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		for results := range partials {
			all = append(all, results...)
		}
	}()

dispatch:
	for filename, list := range assignments {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- fileWork{filename: filename, assignments: list}:
		}
	}
	close(jobs)
	wg.Wait()
	close(partials)
	<-done

	if err := ctx.Err(); err != nil {
		// Abandon accumulated results rather than persist a partial run.
		return nil, stats, fmt.Errorf("extraction interrupted: %w", err)
	}

	stats.Results = int64(len(all))
	log.Info().
		Int64("results", stats.Results).
		Int64("files_processed", stats.FilesProcessed).
		Int64("files_failed", stats.FilesFailed).
		Int64("assignments_failed", stats.AssignmentsFailed).
		Msg("extraction complete")

	return all, stats, nil
}

// processFile opens one corpus file and walks its assignments in byte-offset
// order, seeking directly to each document.
func (e *Engine) processFile(ctx context.Context, workerID int, processor *Processor, work fileWork, stats *Stats) []Result {
	path := filepath.Join(e.corpusRoot, work.filename)
	f, err := os.Open(path)
	if err != nil {
		atomic.AddInt64(&stats.FilesFailed, 1)
		log.Warn().Err(err).Int("worker", workerID).Str("file", work.filename).Msg("skipping unreadable file")
		return nil
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	var results []Result

	for _, a := range work.assignments {
		if ctx.Err() != nil {
			return results
		}
		if len(a.Terms) == 0 {
			continue
		}
		docResults, err := e.processAssignment(f, r, processor, a)
		if err != nil {
			atomic.AddInt64(&stats.AssignmentsFailed, 1)
			log.Warn().Err(err).
				Int("worker", workerID).
				Str("file", work.filename).
				Str("bibcode", a.Bibcode).
				Msg("skipping assignment")
			continue
		}
		atomic.AddInt64(&stats.AssignmentsProcessed, 1)
		results = append(results, docResults...)
	}

	atomic.AddInt64(&stats.FilesProcessed, 1)
	log.Debug().
		Int("worker", workerID).
		Str("file", work.filename).
		Int("results", len(results)).
		Msg("file complete")
	return results
}

// processAssignment seeks to one document, reads exactly one line, parses it
// and runs the processor over the assignment's terms. Any failure is scoped
// to this assignment.
func (e *Engine) processAssignment(f *os.File, r *bufio.Reader, processor *Processor, a assign.WorkAssignment) ([]Result, error) {
	if _, err := f.Seek(a.ByteOffset, 0); err != nil {
		return nil, fmt.Errorf("seek to %d: %w", a.ByteOffset, err)
	}
	r.Reset(f)

	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("read line at %d: %w", a.ByteOffset, err)
	}

	doc, err := ParseDocument(line)
	if err != nil {
		return nil, err
	}
	return processor.Process(doc, a.Terms), nil
}

// readLine reads one newline-terminated line, tolerating a missing trailing
// newline on the last line of a file.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if len(line) > 0 {
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}
