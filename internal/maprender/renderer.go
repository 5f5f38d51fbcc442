// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package maprender renders the self-contained Leaflet HTML page from the
// built marker and warning lists. The output depends only on public CDN
// assets; no server-side component is needed to view it.
package maprender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/streetmapper/ticketmap/internal/i18n"
	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/models"
)

const (
	// defaultZoom frames the whole service area when there are no markers.
	defaultZoom = 11
	// singleMarkerZoom frames a single ticket at street level.
	singleMarkerZoom = 16

	timestampLayout = "02.01.2006 15:04"
)

// Page is the input to one render: the map center plus everything the
// builder produced.
type Page struct {
	Center   models.Coordinates
	Markers  []models.Marker
	Warnings []models.Warning
	// LogoURL adds a logo overlay in the top-right corner when non-empty.
	LogoURL     string
	GeneratedAt time.Time
}

// Renderer renders ticket maps for one locale.
type Renderer struct {
	lang   i18n.Table
	locale i18n.Locale
	tmpl   *template.Template
}

// NewRenderer creates a renderer for the given locale.
func NewRenderer(locale i18n.Locale) *Renderer {
	return &Renderer{
		lang:   i18n.Strings(locale),
		locale: locale,
		tmpl:   template.Must(template.New("map").Parse(pageTemplate)),
	}
}

// markerData is the per-marker payload embedded in the page as JSON.
type markerData struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
	Color   string  `json:"color"`
}

// pageData feeds pageTemplate. Numeric values are pre-formatted so the
// template emits them verbatim instead of through the JS escaper, which
// pads numbers with spaces.
type pageData struct {
	Lang        i18n.Table
	LangCode    string
	CenterLat   template.JS
	CenterLon   template.JS
	Zoom        template.JS
	FitBounds   bool
	MarkersJSON template.JS
	Warnings    []string
	LogoURL     string
	GeneratedAt string
}

func jsFloat(v float64) template.JS {
	return template.JS(strconv.FormatFloat(v, 'g', -1, 64)) //nolint:gosec // numeric literal
}

// Render produces the full HTML page.
//
// Zoom policy: no markers centers the configured point at the default
// zoom, exactly one marker centers that marker at street level, and more
// than one fits the bounds of all markers with padding.
func (r *Renderer) Render(page Page) (string, error) {
	data := pageData{
		Lang:        r.lang,
		LangCode:    r.locale.String(),
		CenterLat:   jsFloat(page.Center.Lat),
		CenterLon:   jsFloat(page.Center.Lon),
		Zoom:        template.JS(strconv.Itoa(defaultZoom)),
		LogoURL:     page.LogoURL,
		GeneratedAt: page.GeneratedAt.Format(timestampLayout),
	}

	switch len(page.Markers) {
	case 0:
	case 1:
		data.CenterLat = jsFloat(page.Markers[0].Coords.Lat)
		data.CenterLon = jsFloat(page.Markers[0].Coords.Lon)
		data.Zoom = template.JS(strconv.Itoa(singleMarkerZoom))
	default:
		data.FitBounds = true
	}

	markers := make([]markerData, 0, len(page.Markers))
	for _, m := range page.Markers {
		markers = append(markers, markerData{
			Lat:     m.Coords.Lat,
			Lon:     m.Coords.Lon,
			Popup:   m.Popup,
			Tooltip: m.Tooltip,
			Color:   m.Color,
		})
	}
	encoded, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("encode markers: %w", err)
	}
	data.MarkersJSON = template.JS(encoded) //nolint:gosec // marker fields are JSON-encoded above

	for _, w := range page.Warnings {
		data.Warnings = append(data.Warnings, r.warningLine(w))
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render map page: %w", err)
	}
	return buf.String(), nil
}

// WriteFile renders the page and writes it world-readable, so a web
// server running under another account can serve it directly.
func (r *Renderer) WriteFile(path string, page Page) error {
	html, err := r.Render(page)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write map file: %w", err)
	}
	// WriteFile leaves prior permissions untouched on existing files.
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("chmod map file: %w", err)
	}
	logging.Info().Str("path", path).Int("markers", len(page.Markers)).Int("warnings", len(page.Warnings)).Msg("wrote map")
	return nil
}

// warningLine formats one warning list entry. Approximate entries carry
// the municipality the ticket was pinned to.
func (r *Renderer) warningLine(w models.Warning) string {
	suffix := r.lang.NotFoundMarker
	if w.Reason == models.WarnApproximate {
		suffix = r.lang.ApproxMarker
		if w.Locality != "" {
			suffix += ": " + w.Locality
		}
	}
	return fmt.Sprintf("%s %d (%s): %s %s", r.lang.Ticket, w.TicketID, w.CustomerName, w.Address, suffix)
}
