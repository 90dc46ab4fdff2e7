// Package bibindex persists the bibcode location index: one record per
// bibcode mapping it to the corpus file, byte offset and line number where
// its document lives. The index is a BadgerDB keyspace so the resolver can
// answer tens of thousands of membership probes without one query per code.
package bibindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// resolveChunkSize bounds how many codes one read transaction touches.
// Purely a scalability tactic, not an observable contract.
const resolveChunkSize = 10000

// Location is one resolved bibcode row.
type Location struct {
	Bibcode    string `json:"bibcode"`
	Filename   string `json:"filename"`
	ByteOffset int64  `json:"byte_offset"`
	LineNumber int    `json:"line_number"`
	Year       int    `json:"year"`
}

// Config holds the BadgerDB configuration for the index.
type Config struct {
	// Dir is the directory where the index lives.
	Dir string
	// InMemory enables in-memory mode (useful for testing).
	InMemory bool
	// ReadOnly opens the index for resolution only.
	ReadOnly bool
	// SyncWrites forces fsync per write batch during index builds.
	SyncWrites bool
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Dir == "" && !c.InMemory {
		return errors.New("Dir must be specified when InMemory is false")
	}
	if c.InMemory && c.ReadOnly {
		return errors.New("InMemory and ReadOnly are mutually exclusive")
	}
	return nil
}

// DefaultConfig returns a read-only configuration for an existing index.
func DefaultConfig(dir string) *Config {
	return &Config{Dir: dir, ReadOnly: true}
}

// Index is a handle to the location index.
type Index struct {
	db *badger.DB
}

// Open opens (or creates) the index described by cfg.
func Open(cfg *Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index configuration: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("")
		opts.InMemory = true
	}
	opts.ReadOnly = cfg.ReadOnly
	opts.SyncWrites = cfg.SyncWrites
	// Single-writer build, read-mostly serving: no conflict detection needed.
	opts.DetectConflicts = false
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open location index at %s: %w", cfg.Dir, err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Put stores a batch of location records, overwriting existing ones.
func (ix *Index) Put(records []Location) error {
	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode location for %s: %w", rec.Bibcode, err)
		}
		if err := wb.Set([]byte(rec.Bibcode), val); err != nil {
			return fmt.Errorf("stage location for %s: %w", rec.Bibcode, err)
		}
	}
	return wb.Flush()
}

// Get looks up a single bibcode. The boolean reports presence.
func (ix *Index) Get(code string) (Location, bool, error) {
	var loc Location
	found := false
	err := ix.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &loc)
		})
	})
	return loc, found, err
}

// Count returns the number of indexed bibcodes.
func (ix *Index) Count() (int, error) {
	n := 0
	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// ResolveAll performs the bulk set join: every requested code present in the
// index yields a Location; absent codes are dropped and counted. Codes are
// sorted first so each chunk's point reads walk the keyspace in order.
func (ix *Index) ResolveAll(codes []string) ([]Location, int, error) {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)

	resolved := make([]Location, 0, len(sorted))

	for start := 0; start < len(sorted); start += resolveChunkSize {
		end := start + resolveChunkSize
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[start:end]

		err := ix.db.View(func(txn *badger.Txn) error {
			for _, code := range chunk {
				item, err := txn.Get([]byte(code))
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				if err != nil {
					return fmt.Errorf("lookup %s: %w", code, err)
				}
				var loc Location
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &loc)
				}); err != nil {
					return fmt.Errorf("decode location for %s: %w", code, err)
				}
				resolved = append(resolved, loc)
			}
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
	}

	dropped := len(sorted) - len(resolved)
	log.Info().
		Int("requested", len(sorted)).
		Int("resolved", len(resolved)).
		Int("unresolved", dropped).
		Msg("bulk bibcode resolution complete")

	return resolved, dropped, nil
}
