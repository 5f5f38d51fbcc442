// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where the config file is searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"/etc/ticketmap/config.yaml",
	"/etc/ticketmap/config.json",
}

// envPrefix namespaces the environment variable layer:
// TICKETMAP_API_TOKEN -> api.token, TICKETMAP_MAP_RADIUS_KM -> map.radius_km.
const envPrefix = "TICKETMAP_"

// ErrNoConfigFile is returned when no config file exists at the given or
// default paths. The process must abort on it (fatal startup error).
var ErrNoConfigFile = fmt.Errorf("no config file found (searched: %s)", strings.Join(DefaultConfigPaths, ", "))

// Load reads configuration from defaults, the config file, and environment
// variables, then validates the result. path selects an explicit config
// file; pass "" to search DefaultConfigPaths.
//
// A missing config file is an error: the pipeline must not run on defaults
// alone, since the API token has no default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	configPath, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}
	// The YAML parser accepts JSON documents too, so config.json works.
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", configPath, err)
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// resolveConfigFile returns the config file to load: the explicit path if
// given, otherwise the first default path that exists.
func resolveConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrNoConfigFile
}

// envTransformFunc maps TICKETMAP_SECTION_KEY_NAME to section.key_name.
// Only the first underscore separates the section; the rest of the key
// keeps its underscores (TICKETMAP_MAP_RADIUS_KM -> map.radius_km).
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}
