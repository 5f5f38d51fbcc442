// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package cachestore

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// BadgerStore keeps the mapping in a BadgerDB, one entry per key under a
// keyspace prefix. Useful when the geo-cache outgrows a flat JSON file.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
	// ownsDB marks stores that opened the DB themselves and must close it.
	ownsDB bool
}

// OpenBadgerStore opens (or creates) a BadgerDB at dir and returns a store
// scoped to the given keyspace prefix.
func OpenBadgerStore(dir, keyspace string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db at %s: %w", dir, err)
	}
	return &BadgerStore{db: db, prefix: []byte(keyspace + ":"), ownsDB: true}, nil
}

// NewBadgerStore wraps an already-open BadgerDB with a keyspace prefix.
// Closing the returned store does not close the DB.
func NewBadgerStore(db *badger.DB, keyspace string) *BadgerStore {
	return &BadgerStore{db: db, prefix: []byte(keyspace + ":")}
}

// Load reads every entry under the keyspace prefix.
func (s *BadgerStore) Load() (map[string]json.RawMessage, error) {
	data := map[string]json.RawMessage{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			item := it.Item()
			key := string(bytes.TrimPrefix(item.Key(), s.prefix))
			if err := item.Value(func(val []byte) error {
				data[key] = json.RawMessage(append([]byte(nil), val...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load badger keyspace %s: %w", s.prefix, err)
	}

	return data, nil
}

// Save replaces the keyspace content with the given mapping: keys missing
// from the mapping are deleted, the rest are written.
func (s *BadgerStore) Save(data map[string]json.RawMessage) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		// Collect stale keys first; deleting while iterating invalidates
		// the iterator.
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			key := string(bytes.TrimPrefix(it.Item().Key(), s.prefix))
			if _, ok := data[key]; !ok {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for key, val := range data {
			if err := txn.Set(append(append([]byte(nil), s.prefix...), key...), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save badger keyspace %s: %w", s.prefix, err)
	}
	return nil
}

// Close closes the underlying DB if this store opened it.
func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
