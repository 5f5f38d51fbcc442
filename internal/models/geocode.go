// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Coordinates is a WGS84 latitude/longitude pair. It marshals as the
// two-element array [lat, lon] used by the geo-cache file format.
type Coordinates struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the pair as [lat, lon].
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON decodes a [lat, lon] array.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinates must be a [lat, lon] array: %w", err)
	}
	c.Lat = pair[0]
	c.Lon = pair[1]
	return nil
}

// GeoCacheEntry is one persisted geocoding result, keyed by the address
// string it was resolved from. Entries are written once and reused verbatim
// on later runs; the cache is unbounded and never evicted.
//
// Two wire forms are accepted on read:
//
//	legacy:  [lat, lon]
//	current: {"coords": [lat, lon], "approximate": bool, "locality": "..."}
//
// Legacy entries carry no resolution metadata and are upgraded to the
// current form on first read (Legacy reports whether that happened).
type GeoCacheEntry struct {
	Coords      Coordinates `json:"coords"`
	Approximate bool        `json:"approximate"`
	// Locality is the municipality the fallback query resolved, empty for
	// exact matches.
	Locality string `json:"locality,omitempty"`

	// Legacy is true when the entry was decoded from the two-element
	// legacy form. Not persisted.
	Legacy bool `json:"-"`
}

// UnmarshalJSON accepts both the legacy array form and the current object
// form.
func (e *GeoCacheEntry) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err == nil {
		e.Coords = Coordinates{Lat: pair[0], Lon: pair[1]}
		e.Approximate = false
		e.Locality = ""
		e.Legacy = true
		return nil
	}

	type entry GeoCacheEntry // shed methods to avoid recursion
	var v entry
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid geo cache entry: %w", err)
	}
	*e = GeoCacheEntry(v)
	e.Legacy = false
	return nil
}

// Resolution is the outcome of resolving one address.
type Resolution struct {
	Coords      Coordinates
	Found       bool
	Approximate bool
	// Locality is set when only the municipality could be located.
	Locality string
}
