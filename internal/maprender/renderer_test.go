// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package maprender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/streetmapper/ticketmap/internal/i18n"
	"github.com/streetmapper/ticketmap/internal/models"
)

var testCenter = models.Coordinates{Lat: 46.67, Lon: 11.15}

func testMarker(id int, lat, lon float64) models.Marker {
	return models.Marker{
		Coords:   models.Coordinates{Lat: lat, Lon: lon},
		Popup:    "<div>popup</div>",
		Tooltip:  "tooltip",
		Color:    "red",
		TicketID: id,
	}
}

func TestRenderEmptyMapUsesDefaultView(t *testing.T) {
	r := NewRenderer(i18n.LocaleDE)
	html, err := r.Render(Page{Center: testCenter, GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, "zoom: 11") {
		t.Error("empty map not at default zoom")
	}
	if !strings.Contains(html, "center: [46.67, 11.15]") {
		t.Errorf("map not centered on configured point: %s", snippet(html, "center:"))
	}
	if strings.Contains(html, "fitBounds") {
		t.Error("empty map must not fit bounds")
	}
	if strings.Contains(html, "warning-box") {
		t.Error("warning box rendered without warnings")
	}
	if !strings.Contains(html, "Generiert um 14.03.2026 09:30") {
		t.Error("missing generated-at line")
	}
}

func TestRenderSingleMarkerZoomsToStreetLevel(t *testing.T) {
	r := NewRenderer(i18n.LocaleDE)
	html, err := r.Render(Page{
		Center:      testCenter,
		Markers:     []models.Marker{testMarker(42, 46.6713, 11.1594)},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, "zoom: 16") {
		t.Error("single marker not at street-level zoom")
	}
	if strings.Contains(html, "fitBounds") {
		t.Error("single marker must not fit bounds")
	}
	// The view centers on the marker, not the configured center.
	if !strings.Contains(html, "46.6713") {
		t.Error("view not centered on the marker")
	}
}

func TestRenderMultipleMarkersFitBounds(t *testing.T) {
	r := NewRenderer(i18n.LocaleDE)
	html, err := r.Render(Page{
		Center: testCenter,
		Markers: []models.Marker{
			testMarker(1, 46.67, 11.15),
			testMarker(2, 46.50, 11.35),
		},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, "fitBounds") {
		t.Error("multiple markers must fit bounds")
	}
}

func TestRenderMarkerPayload(t *testing.T) {
	r := NewRenderer(i18n.LocaleDE)
	m := testMarker(42, 46.6713, 11.1594)
	m.Color = "orange"
	m.Tooltip = "42 - Hotel Alpenblick"
	html, err := r.Render(Page{Center: testCenter, Markers: []models.Marker{m}, GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{`"color":"orange"`, `"lat":46.6713`, `"lon":11.1594`, `"tooltip":"42 - Hotel Alpenblick"`} {
		if !strings.Contains(html, want) {
			t.Errorf("marker payload missing %s", want)
		}
	}
	if !strings.Contains(html, "marker-icon-2x-") {
		t.Error("missing colored marker icon base")
	}
}

func TestRenderWarnings(t *testing.T) {
	r := NewRenderer(i18n.LocaleDE)
	html, err := r.Render(Page{
		Center: testCenter,
		Warnings: []models.Warning{
			{TicketID: 7, CustomerName: "Ghost GmbH", Address: "Nonexistent Xyz 999", Reason: models.WarnNotFound},
			{TicketID: 9, CustomerName: "Bar Centrale", Address: "Unknown Street 5, Merano", Reason: models.WarnApproximate, Locality: "Merano"},
		},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, "warning-box") {
		t.Fatal("warning box missing")
	}
	if !strings.Contains(html, "Achtung: Folgende Tickets konnten nicht exakt lokalisiert werden:") {
		t.Error("missing localized warning header")
	}
	if !strings.Contains(html, "Ticket 7 (Ghost GmbH): Nonexistent Xyz 999 (keine Lokalisierung möglich)") {
		t.Error("missing not-found warning line")
	}
	if !strings.Contains(html, "Ticket 9 (Bar Centrale): Unknown Street 5, Merano (nur Gemeinde lokalisiert): Merano") {
		t.Error("approximate warning line missing the resolved municipality")
	}
}

func TestRenderLocalization(t *testing.T) {
	tests := []struct {
		locale   i18n.Locale
		expected []string
	}{
		{i18n.LocaleDE, []string{`lang="de"`, "Vollbildmodus", "Generiert um"}},
		{i18n.LocaleIT, []string{`lang="it"`, "Schermo intero", "Generato alle"}},
		{i18n.LocaleEN, []string{`lang="en"`, "Fullscreen", "Generated at"}},
	}

	for _, tt := range tests {
		t.Run(tt.locale.String(), func(t *testing.T) {
			html, err := NewRenderer(tt.locale).Render(Page{Center: testCenter, GeneratedAt: time.Now()})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(html, want) {
					t.Errorf("locale %s output missing %q", tt.locale, want)
				}
			}
		})
	}
}

func TestWriteFileWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	r := NewRenderer(i18n.LocaleDE)

	if err := r.WriteFile(path, Page{Center: testCenter, GeneratedAt: time.Now()}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("permissions = %o, want 644", perm)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "leaflet") {
		t.Error("written file does not look like a leaflet page")
	}
}

// snippet returns the line containing needle, for readable failures.
func snippet(s, needle string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, needle) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
