// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package cachestore persists the two key-value caches ticketmap keeps
// between runs: the ticket-fetch snapshot and the address geo-cache.
//
// A Store loads and saves a whole mapping at once. There is no partial-write
// protection and no locking; concurrent runs of the program are not
// supported and would race on the same backing file.
package cachestore

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Store is a persisted mapping from string keys to raw JSON values.
type Store interface {
	// Load returns the persisted mapping, or an empty mapping if nothing
	// has been persisted yet. A missing backing file is not an error.
	Load() (map[string]json.RawMessage, error)

	// Save persists the full mapping, replacing any prior content.
	Save(data map[string]json.RawMessage) error

	// Close releases backend resources.
	Close() error
}

// FileStore keeps the mapping in a single indented JSON document on disk,
// matching the cache files earlier deployments already have.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The file is created on
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the whole document. A missing file yields an empty mapping.
func (s *FileStore) Load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file %s: %w", s.path, err)
	}

	data := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", s.path, err)
	}
	return data, nil
}

// Save overwrites the document with the given mapping.
func (s *FileStore) Save(data map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write cache file %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }
