// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package geocode

import (
	"context"
	"strings"

	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/models"
)

// Resolver resolves addresses through the cache, the configured providers,
// and the municipality fallback.
type Resolver struct {
	providers []Provider
	cache     *GeoCache
	// regionSuffix and regionSuffixAlt qualify address variants, tried in
	// this order before the bare address.
	regionSuffix    string
	regionSuffixAlt string
}

// NewResolver creates a resolver. Providers are tried in order for each
// address variant; unavailable providers are skipped.
func NewResolver(cache *GeoCache, regionSuffix, regionSuffixAlt string, providers ...Provider) *Resolver {
	return &Resolver{
		providers:       providers,
		cache:           cache,
		regionSuffix:    regionSuffix,
		regionSuffixAlt: regionSuffixAlt,
	}
}

// Resolve maps an address to coordinates.
//
// Resolution order:
//  1. cache hit: returned verbatim (legacy entries are upgraded in place)
//  2. address variants in priority order: with the region suffix, with the
//     alternate-locale suffix, bare; the first hit is cached as exact
//  3. municipality fallback: the text after the last comma, qualified with
//     the region suffix; a hit is cached as approximate
//
// Total failure returns Found=false and writes no cache entry, so future
// runs retry. Per-attempt errors are logged and treated as misses.
func (r *Resolver) Resolve(ctx context.Context, address string) models.Resolution {
	if entry, ok := r.cache.Get(address); ok {
		return models.Resolution{
			Coords:      entry.Coords,
			Found:       true,
			Approximate: entry.Approximate,
			Locality:    entry.Locality,
		}
	}

	variants := []string{
		address + ", " + r.regionSuffix,
		address + ", " + r.regionSuffixAlt,
		address,
	}
	for _, variant := range variants {
		if coords := r.tryProviders(ctx, variant); coords != nil {
			r.cache.Put(address, models.GeoCacheEntry{Coords: *coords})
			return models.Resolution{Coords: *coords, Found: true}
		}
	}

	if locality := extractLocality(address); locality != "" {
		if coords := r.tryProviders(ctx, locality+", "+r.regionSuffix); coords != nil {
			r.cache.Put(address, models.GeoCacheEntry{
				Coords:      *coords,
				Approximate: true,
				Locality:    locality,
			})
			return models.Resolution{
				Coords:      *coords,
				Found:       true,
				Approximate: true,
				Locality:    locality,
			}
		}
	}

	logging.Warn().Str("address", address).Msg("address could not be geocoded")
	return models.Resolution{}
}

// tryProviders runs one query against the provider chain and returns the
// first hit. Errors and empty results both count as misses.
func (r *Resolver) tryProviders(ctx context.Context, query string) *models.Coordinates {
	for _, provider := range r.providers {
		if !provider.IsAvailable() {
			continue
		}

		coords, err := provider.Geocode(ctx, query)
		if err != nil {
			logging.Warn().Err(err).Str("provider", provider.Name()).Str("query", query).Msg("geocoding attempt failed")
			continue
		}
		if coords != nil {
			logging.Debug().Str("provider", provider.Name()).Str("query", query).Msg("geocoding hit")
			return coords
		}
	}
	return nil
}

// extractLocality returns the text after the last comma, or "" when the
// address has no comma.
func extractLocality(address string) string {
	idx := strings.LastIndex(address, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(address[idx+1:])
}
