package bibindex

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// putBatchSize is how many locations are staged before flushing to Badger.
const putBatchSize = 10000

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// BuildStats summarizes one index build.
type BuildStats struct {
	Files   int
	Records int
	Skipped int
}

// indexedRecord is the minimal slice of a corpus line the builder needs.
type indexedRecord struct {
	Bibcode string          `json:"bibcode"`
	Year    json.RawMessage `json:"year"`
}

// recordYear extracts the year from the record's own field, falling back to
// the first 4-digit run in the filename, then 0.
func recordYear(raw json.RawMessage, filename string) int {
	if len(raw) > 0 {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return n
			}
		}
	}
	if m := yearPattern.FindString(filepath.Base(filename)); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// Build scans every NDJSON file under corpusRoot and indexes each line's
// bibcode to its physical location. Lines without a parsable bibcode are
// skipped and counted; the offsets recorded are the start of each line.
func (ix *Index) Build(corpusRoot string) (BuildStats, error) {
	var stats BuildStats

	err := filepath.WalkDir(corpusRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".jsonl" && ext != ".json" && ext != ".ndjson" {
			return nil
		}
		rel, err := filepath.Rel(corpusRoot, path)
		if err != nil {
			return err
		}
		n, skipped, err := ix.indexFile(path, rel)
		if err != nil {
			return fmt.Errorf("index %s: %w", rel, err)
		}
		stats.Files++
		stats.Records += n
		stats.Skipped += skipped
		return nil
	})
	if err != nil {
		return stats, err
	}

	log.Info().
		Int("files", stats.Files).
		Int("records", stats.Records).
		Int("skipped", stats.Skipped).
		Msg("location index built")
	return stats, nil
}

func (ix *Index) indexFile(path, rel string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	var (
		offset  int64
		lineNum int
		batch   []Location
		records int
		skipped int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.Put(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			var rec indexedRecord
			if jsonErr := json.Unmarshal(line, &rec); jsonErr != nil || rec.Bibcode == "" {
				skipped++
			} else {
				batch = append(batch, Location{
					Bibcode:    rec.Bibcode,
					Filename:   rel,
					ByteOffset: offset,
					LineNumber: lineNum,
					Year:       recordYear(rec.Year, rel),
				})
				records++
				if len(batch) >= putBatchSize {
					if err := flush(); err != nil {
						return records, skipped, err
					}
				}
			}
			offset += int64(len(line))
			lineNum++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, skipped, err
		}
	}
	return records, skipped, flush()
}
