// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package geocode

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/streetmapper/ticketmap/internal/cachestore"
	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/models"
)

// GeoCache is the address-to-coordinates cache service. It loads the full
// mapping once, serves reads and writes in memory, and persists on Flush.
// Mutation goes through Put only; callers never share a raw map.
type GeoCache struct {
	store   cachestore.Store
	entries map[string]json.RawMessage
	dirty   bool
}

// OpenGeoCache loads the persisted geo-cache from the store.
func OpenGeoCache(store cachestore.Store) (*GeoCache, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load geo cache: %w", err)
	}
	logging.Info().Int("entries", len(entries)).Msg("loaded geo cache")
	return &GeoCache{store: store, entries: entries}, nil
}

// Get returns the cached entry for an address. Legacy two-field entries
// are normalized to the current form in place; the upgrade is persisted on
// the next Flush. Undecodable entries are treated as misses.
func (c *GeoCache) Get(address string) (models.GeoCacheEntry, bool) {
	raw, ok := c.entries[address]
	if !ok {
		return models.GeoCacheEntry{}, false
	}

	var entry models.GeoCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		logging.Warn().Err(err).Str("address", address).Msg("unreadable geo cache entry, ignoring")
		return models.GeoCacheEntry{}, false
	}

	if entry.Legacy {
		logging.Debug().Str("address", address).Msg("upgrading legacy geo cache entry")
		entry.Legacy = false
		c.Put(address, entry)
	}

	return entry, true
}

// Put stores an entry for an address, replacing any prior value.
func (c *GeoCache) Put(address string, entry models.GeoCacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		// Entries are plain structs; this cannot fail in practice.
		logging.Error().Err(err).Str("address", address).Msg("failed to encode geo cache entry")
		return
	}
	c.entries[address] = raw
	c.dirty = true
}

// Len returns the number of cached entries.
func (c *GeoCache) Len() int { return len(c.entries) }

// Flush persists the cache if anything changed since load.
func (c *GeoCache) Flush() error {
	if !c.dirty {
		return nil
	}
	if err := c.store.Save(c.entries); err != nil {
		return fmt.Errorf("save geo cache: %w", err)
	}
	c.dirty = false
	logging.Info().Int("entries", len(c.entries)).Msg("saved geo cache")
	return nil
}
