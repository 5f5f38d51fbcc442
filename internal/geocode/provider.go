// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package geocode resolves free-text addresses to coordinates, with
// multi-variant retry, municipality-level fallback, and a persistent cache.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/streetmapper/ticketmap/internal/models"
)

// Provider is one geocoding backend. Implementations are tried in order by
// the Resolver; a nil location with nil error means "no match".
type Provider interface {
	// Geocode resolves a free-text query to coordinates. Returns (nil, nil)
	// when the provider has no match for the query.
	Geocode(ctx context.Context, query string) (*models.Coordinates, error)

	// Name returns the provider name for logging.
	Name() string

	// IsAvailable reports whether the provider is configured and usable.
	IsAvailable() bool
}

// NominatimProvider queries a Nominatim instance (the public
// nominatim.openstreetmap.org by default). The public instance requires a
// descriptive User-Agent and at most one request per second; the limiter
// enforces the latter.
type NominatimProvider struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
}

// nominatimResult is one entry of a Nominatim jsonv2 search response.
// Coordinates come back as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimProvider creates a Nominatim provider.
func NewNominatimProvider(baseURL, userAgent string, timeout time.Duration) *NominatimProvider {
	return &NominatimProvider{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// Name returns the provider name.
func (p *NominatimProvider) Name() string { return "nominatim" }

// IsAvailable returns true when a base URL is configured.
func (p *NominatimProvider) IsAvailable() bool { return p.baseURL != "" }

// Geocode queries the Nominatim search endpoint for the best match.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	reqURL := p.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim longitude %q: %w", results[0].Lon, err)
	}

	return &models.Coordinates{Lat: lat, Lon: lon}, nil
}

// PhotonProvider queries a komoot Photon instance. It is an optional
// second tier behind Nominatim and stays disabled unless a base URL is
// configured.
type PhotonProvider struct {
	client  *http.Client
	baseURL string
}

// photonResponse is the GeoJSON FeatureCollection Photon returns.
// Geometry coordinates are [lon, lat].
type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// NewPhotonProvider creates a Photon provider. An empty baseURL yields a
// provider that reports unavailable.
func NewPhotonProvider(baseURL string, timeout time.Duration) *PhotonProvider {
	return &PhotonProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name returns the provider name.
func (p *PhotonProvider) Name() string { return "photon" }

// IsAvailable returns true when a base URL is configured.
func (p *PhotonProvider) IsAvailable() bool { return p.baseURL != "" }

// Geocode queries the Photon API for the best match.
func (p *PhotonProvider) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("photon provider not configured")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")
	reqURL := p.baseURL + "/api?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create photon request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query photon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photon returned status %d", resp.StatusCode)
	}

	var result photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode photon response: %w", err)
	}
	if len(result.Features) == 0 {
		return nil, nil
	}
	coords := result.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, fmt.Errorf("photon feature has %d coordinates", len(coords))
	}

	return &models.Coordinates{Lat: coords[1], Lon: coords[0]}, nil
}
