// Package cache provides a resumable, disk-backed store of verifier
// results keyed by canonical algorithm code (spec component C13), so a
// run killed partway through can restart without re-invoking the checker
// on work it already finished.
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/xdefago/synth-light/internal/errs"
	"github.com/xdefago/synth-light/internal/report"
)

// Store wraps a BadgerDB instance as an orchestrator.Cache.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB database at dir. A disabled internal
// logger matches the corpus's own badger.Open usage for offline tooling,
// where badger's default logging is noisier than the caller wants.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening cache at %s: %v", errs.ErrWorkspace, dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a BadgerDB instance with no disk backing, for tests
// and for runs that opt out of resumability.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening in-memory cache: %v", errs.ErrWorkspace, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached entry for code, if one was stored by a
// previous run.
func (s *Store) Lookup(code string) (report.Entry, bool) {
	var entry report.Entry
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(code))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return report.Entry{}, false
	}
	return entry, found
}

// Store records entry under its code, overwriting any prior result for
// the same code.
func (s *Store) Store(entry report.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshaling cache entry: %v", errs.ErrWorkspace, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(entry.Code), data)
	})
}
