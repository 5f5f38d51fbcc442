// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package config loads and validates the ticketmap configuration.
//
// Configuration is layered with Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Config file (required - a missing file is a fatal startup error)
//  3. Environment variables (TICKETMAP_*)
//
// The config file may be YAML or JSON; both are parsed by the YAML parser.
package config

import (
	"time"
)

// Config holds all application configuration. It is immutable after Load()
// and safe for concurrent read access.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Map     MapConfig     `koanf:"map"`
	Geocode GeocodeConfig `koanf:"geocode"`
	Cache   CacheConfig   `koanf:"cache"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig holds ticket API connection settings.
type APIConfig struct {
	// BaseURL is the ticket system root, e.g. https://tickets.example.com:10443
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// Token authenticates the search request; passed in the query string.
	Token   string        `koanf:"token" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// TypeID and StatusID are the fixed search filter parameters.
	TypeID   int `koanf:"type_id"`
	StatusID int `koanf:"status_id"`
}

// MapConfig holds the search area and output settings.
type MapConfig struct {
	// CenterPoint is an explicit [lat, lon] pair. Leave empty to geocode
	// CenterAddress at startup instead.
	CenterPoint []float64 `koanf:"center_point"`
	// CenterAddress is geocoded to obtain the center when CenterPoint is
	// not set. Failure to geocode it aborts the run.
	CenterAddress string  `koanf:"center_address"`
	RadiusKm      float64 `koanf:"radius_km" validate:"gt=0"`
	// Language is the default output language (de, it, en); the CLI flag
	// overrides it.
	Language   string `koanf:"language" validate:"oneof=de it en"`
	OutputPath string `koanf:"output_path" validate:"required"`
	LogoURL    string `koanf:"logo_url"`
	// TicketBaseURL is the web UI root used to build per-ticket links in
	// popups, e.g. https://tickets.example.com:10443
	TicketBaseURL string `koanf:"ticket_base_url" validate:"required,url"`
	// SkipUnchanged skips map generation when the fresh API payload is
	// byte-identical to the previous snapshot (--force-update overrides).
	SkipUnchanged bool `koanf:"skip_unchanged"`
}

// GeocodeConfig holds geocoding provider settings.
type GeocodeConfig struct {
	NominatimURL string `koanf:"nominatim_url" validate:"required,url"`
	// PhotonURL enables the Photon fallback provider when non-empty.
	PhotonURL string        `koanf:"photon_url" validate:"omitempty,url"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	// RegionSuffix and RegionSuffixAlt are appended to address variants in
	// priority order before trying the bare address.
	RegionSuffix    string `koanf:"region_suffix" validate:"required"`
	RegionSuffixAlt string `koanf:"region_suffix_alt" validate:"required"`
}

// CacheConfig holds settings for the two persisted caches.
type CacheConfig struct {
	// Enabled toggles reuse of the ticket-fetch snapshot. The geo cache is
	// always active.
	Enabled bool `koanf:"enabled"`
	// Store selects the geo-cache backend: "json" (flat file) or "badger".
	Store string `koanf:"store" validate:"oneof=json badger"`
	// APIPath and GeoPath locate the JSON cache documents.
	APIPath string `koanf:"api_path" validate:"required"`
	GeoPath string `koanf:"geo_path" validate:"required"`
	// BadgerPath is the BadgerDB directory, used when Store is "badger".
	BadgerPath string `koanf:"badger_path"`
	// TimeoutHours bounds snapshot age; at exactly this age the snapshot
	// counts as expired. The CLI flag overrides it.
	TimeoutHours float64 `koanf:"timeout_hours" validate:"gt=0"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Required
// credentials (API token, base URLs) have no defaults and must come from
// the config file or environment.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:  10 * time.Second,
			TypeID:   6,
			StatusID: 1,
		},
		Map: MapConfig{
			RadiusKm:      120,
			Language:      "de",
			OutputPath:    "/var/www/html/index.html",
			SkipUnchanged: false,
		},
		Geocode: GeocodeConfig{
			NominatimURL:    "https://nominatim.openstreetmap.org",
			UserAgent:       "ticketmap/1.0 (+https://github.com/streetmapper/ticketmap)",
			Timeout:         5 * time.Second,
			RegionSuffix:    "South Tyrol, Italy",
			RegionSuffixAlt: "Südtirol, Italien",
		},
		Cache: CacheConfig{
			Enabled:      true,
			Store:        "json",
			APIPath:      "api_cache.json",
			GeoPath:      "geo_cache.json",
			BadgerPath:   "geo_cache.badger",
			TimeoutHours: 1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
