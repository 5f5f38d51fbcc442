// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package cachestore

import "fmt"

// StoreType selects the geo-cache backend.
type StoreType string

const (
	// StoreJSON keeps the cache in a flat JSON file (default).
	StoreJSON StoreType = "json"
	// StoreBadger keeps the cache in a BadgerDB directory.
	StoreBadger StoreType = "badger"
)

// NewGeoStore builds the geo-cache store for the configured backend.
// jsonPath is used for StoreJSON, badgerDir for StoreBadger.
func NewGeoStore(storeType StoreType, jsonPath, badgerDir string) (Store, error) {
	switch storeType {
	case StoreJSON, "":
		return NewFileStore(jsonPath), nil
	case StoreBadger:
		return OpenBadgerStore(badgerDir, "geo")
	default:
		return nil, fmt.Errorf("unknown cache store type %q", storeType)
	}
}
