// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package main is the entry point for the ticketmap pipeline.
//
// Ticketmap fetches open support tickets from the ticket system API,
// geocodes their addresses, and writes a self-contained interactive
// Leaflet map as a single HTML file. It is designed to run periodically
// from cron, with both the ticket fetch and the geocoding results cached
// between runs.
//
// # Pipeline
//
// One run executes the following steps in order:
//
//  1. Configuration: load settings from the config file and environment
//     variables (Koanf v2); a missing config file is fatal
//  2. Caches: open the ticket snapshot and the persistent geo-cache
//     (flat JSON file or BadgerDB, per cache.store)
//  3. Center: take the configured [lat, lon] pair, or geocode the
//     configured center address; an unresolvable center is fatal
//  4. Tickets: serve from the snapshot when fresh, otherwise fetch
//  5. Build: geocode each ticket, filter by radius, build markers
//  6. Render: write the Leaflet page world-readable to the output path
//
// # Example Usage
//
// Hourly cron run with the default config search path:
//
//	ticketmap
//
// Italian output, fresh fetch, custom destination:
//
//	ticketmap --language it --no-cache --output /var/www/html/it/index.html
//
// Regenerate even when the ticket payload has not changed:
//
//	ticketmap --force-update
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/streetmapper/ticketmap/internal/cachestore"
	"github.com/streetmapper/ticketmap/internal/config"
	"github.com/streetmapper/ticketmap/internal/geocode"
	"github.com/streetmapper/ticketmap/internal/i18n"
	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/mapbuild"
	"github.com/streetmapper/ticketmap/internal/maprender"
	"github.com/streetmapper/ticketmap/internal/models"
	"github.com/streetmapper/ticketmap/internal/tickets"
)

func main() {
	flags := pflag.NewFlagSet("ticketmap", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "config file path (default: search config.yaml, config.json, /etc/ticketmap)")
	language := flags.StringP("language", "l", "", "output language: de, it, en (overrides config)")
	cacheTimeout := flags.Float64P("cache-timeout", "t", 0, "ticket snapshot timeout in hours (overrides config)")
	outputPath := flags.StringP("output", "o", "", "output HTML file path (overrides config)")
	noCache := flags.Bool("no-cache", false, "always fetch fresh ticket data, ignoring the snapshot")
	forceUpdate := flags.Bool("force-update", false, "regenerate the map even when the ticket data is unchanged")
	_ = flags.Parse(os.Args[1:]) // ExitOnError

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The default logger is usable before Init.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// CLI flags override the file and environment layers.
	if flags.Changed("language") {
		cfg.Map.Language = *language
	}
	if flags.Changed("cache-timeout") {
		cfg.Cache.TimeoutHours = *cacheTimeout
	}
	if flags.Changed("output") {
		cfg.Map.OutputPath = *outputPath
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		RunID:  uuid.NewString(),
	})

	locale := i18n.ParseLocale(cfg.Map.Language)
	logging.Info().
		Str("language", locale.String()).
		Str("output", cfg.Map.OutputPath).
		Float64("radius_km", cfg.Map.RadiusKm).
		Msg("Starting ticketmap")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geoStore, err := cachestore.NewGeoStore(cachestore.StoreType(cfg.Cache.Store), cfg.Cache.GeoPath, cfg.Cache.BadgerPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open geo-cache store")
	}
	defer func() {
		if err := geoStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing geo-cache store")
		}
	}()

	geoCache, err := geocode.OpenGeoCache(geoStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load geo-cache")
	}

	providers := []geocode.Provider{
		geocode.NewNominatimProvider(cfg.Geocode.NominatimURL, cfg.Geocode.UserAgent, cfg.Geocode.Timeout),
		geocode.NewPhotonProvider(cfg.Geocode.PhotonURL, cfg.Geocode.Timeout),
	}
	resolver := geocode.NewResolver(geoCache, cfg.Geocode.RegionSuffix, cfg.Geocode.RegionSuffixAlt, providers...)

	center, err := resolveCenter(ctx, cfg, resolver)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to determine map center")
	}

	apiStore := cachestore.NewFileStore(cfg.Cache.APIPath)
	source := tickets.NewCachedSource(
		tickets.NewClient(cfg.API),
		apiStore,
		cfg.Cache.Enabled,
		time.Duration(cfg.Cache.TimeoutHours*float64(time.Hour)),
	)

	result := fetchTickets(ctx, source)

	if cfg.Map.SkipUnchanged && result.Unchanged && !*forceUpdate && fileExists(cfg.Map.OutputPath) {
		logging.Info().Msg("Ticket data unchanged, keeping existing map")
		flushGeoCache(geoCache)
		return
	}

	builder := mapbuild.NewBuilder(resolver, center, cfg.Map.RadiusKm, mapbuild.DefaultColorScheme(), i18n.Strings(locale), cfg.Map.TicketBaseURL)
	markers, warnings := builder.Build(ctx, result.Tickets)
	flushGeoCache(geoCache)

	renderer := maprender.NewRenderer(locale)
	page := maprender.Page{
		Center:      center,
		Markers:     markers,
		Warnings:    warnings,
		LogoURL:     cfg.Map.LogoURL,
		GeneratedAt: time.Now(),
	}
	if err := renderer.WriteFile(cfg.Map.OutputPath, page); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write map")
	}

	logging.Info().
		Int("tickets", len(result.Tickets)).
		Int("markers", len(markers)).
		Int("warnings", len(warnings)).
		Bool("from_cache", result.FromCache).
		Msg("Map generated")
}

// fetchTickets returns the ticket list, degrading to an empty result when
// the fetch fails: an unreachable API produces an empty map on schedule
// instead of a crash. The previous snapshot stays in place for the next
// run, and Unchanged is never set on the degraded result, so the
// unchanged short-circuit cannot skip the regeneration.
func fetchTickets(ctx context.Context, source *tickets.CachedSource) *tickets.Result {
	result, err := source.Tickets(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("No ticket data available, generating empty map")
		return &tickets.Result{FetchedAt: time.Now()}
	}
	return result
}

// resolveCenter returns the configured center point, geocoding the center
// address when no explicit pair is set.
func resolveCenter(ctx context.Context, cfg *config.Config, resolver *geocode.Resolver) (models.Coordinates, error) {
	if len(cfg.Map.CenterPoint) == 2 {
		return models.Coordinates{Lat: cfg.Map.CenterPoint[0], Lon: cfg.Map.CenterPoint[1]}, nil
	}

	res := resolver.Resolve(ctx, cfg.Map.CenterAddress)
	if !res.Found {
		return models.Coordinates{}, fmt.Errorf("center address could not be geocoded: %s", cfg.Map.CenterAddress)
	}
	logging.Info().
		Str("address", cfg.Map.CenterAddress).
		Float64("lat", res.Coords.Lat).
		Float64("lon", res.Coords.Lon).
		Msg("Geocoded map center")
	return res.Coords, nil
}

// flushGeoCache persists the geo-cache, logging instead of failing: losing
// cached lookups only costs repeat geocoding next run.
func flushGeoCache(cache *geocode.GeoCache) {
	if err := cache.Flush(); err != nil {
		logging.Error().Err(err).Msg("Failed to save geo-cache")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
