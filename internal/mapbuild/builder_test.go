// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package mapbuild

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/streetmapper/ticketmap/internal/cachestore"
	"github.com/streetmapper/ticketmap/internal/geo"
	"github.com/streetmapper/ticketmap/internal/geocode"
	"github.com/streetmapper/ticketmap/internal/i18n"
	"github.com/streetmapper/ticketmap/internal/models"
)

const (
	testSuffix    = "South Tyrol, Italy"
	testSuffixAlt = "Südtirol, Italien"
	testBaseURL   = "https://tickets.example.com"
)

// scriptedProvider answers a fixed query table.
type scriptedProvider struct {
	answers map[string]models.Coordinates
}

func (s *scriptedProvider) Geocode(_ context.Context, query string) (*models.Coordinates, error) {
	if coords, ok := s.answers[query]; ok {
		return &coords, nil
	}
	return nil, nil
}

func (s *scriptedProvider) Name() string      { return "scripted" }
func (s *scriptedProvider) IsAvailable() bool { return true }

func newTestBuilder(t *testing.T, center models.Coordinates, radiusKm float64, answers map[string]models.Coordinates) *Builder {
	t.Helper()
	store := cachestore.NewFileStore(filepath.Join(t.TempDir(), "geo_cache.json"))
	cache, err := geocode.OpenGeoCache(store)
	if err != nil {
		t.Fatal(err)
	}
	resolver := geocode.NewResolver(cache, testSuffix, testSuffixAlt, &scriptedProvider{answers: answers})
	return NewBuilder(resolver, center, radiusKm, DefaultColorScheme(), i18n.Strings(i18n.LocaleDE), testBaseURL)
}

func TestBuildMarkerForResolvableTicket(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	b := newTestBuilder(t, center, 120, map[string]models.Coordinates{
		"Via Roma 1, Merano, " + testSuffix: {Lat: 46.6713, Lon: 11.1594},
	})

	markers, warnings := b.Build(context.Background(), []models.Ticket{
		{ID: 42, Address: "Via Roma 1, Merano", CustomerName: "Hotel Alpenblick", Title: "Router offline", Status: "In Bearbeitung"},
	})

	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %+v, want none", warnings)
	}

	m := markers[0]
	if m.TicketID != 42 {
		t.Errorf("ticket id = %d", m.TicketID)
	}
	if m.Color != "orange" {
		t.Errorf("color = %q, want orange for in-progress", m.Color)
	}
	if m.Tooltip != "42 - Hotel Alpenblick" {
		t.Errorf("tooltip = %q", m.Tooltip)
	}
	if m.Coords != (models.Coordinates{Lat: 46.6713, Lon: 11.1594}) {
		t.Errorf("coords = %+v", m.Coords)
	}
	wantLink := `href="https://tickets.example.com/Ticket/view/id/42"`
	if !strings.Contains(m.Popup, wantLink) {
		t.Errorf("popup missing ticket link %q:\n%s", wantLink, m.Popup)
	}
	for _, want := range []string{"Hotel Alpenblick", "Via Roma 1, Merano", "Router offline", "Kunde", "Adresse"} {
		if !strings.Contains(m.Popup, want) {
			t.Errorf("popup missing %q", want)
		}
	}
}

func TestBuildUnresolvableTicketWarnsWithoutMarker(t *testing.T) {
	b := newTestBuilder(t, models.Coordinates{Lat: 46.67, Lon: 11.15}, 120, nil)

	markers, warnings := b.Build(context.Background(), []models.Ticket{
		{ID: 7, Address: "Nonexistent Xyz 999", CustomerName: "Ghost GmbH", Status: "Offen"},
	})

	if len(markers) != 0 {
		t.Errorf("markers = %+v, want none", markers)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	w := warnings[0]
	if w.Reason != models.WarnNotFound {
		t.Errorf("reason = %q, want %q", w.Reason, models.WarnNotFound)
	}
	if w.TicketID != 7 || w.CustomerName != "Ghost GmbH" || w.Address != "Nonexistent Xyz 999" {
		t.Errorf("warning = %+v", w)
	}
}

func TestBuildApproximateHitMarkedBlackAndWarned(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	b := newTestBuilder(t, center, 120, map[string]models.Coordinates{
		// Only the municipality resolves.
		"Merano, " + testSuffix: {Lat: 46.6687, Lon: 11.1594},
	})

	markers, warnings := b.Build(context.Background(), []models.Ticket{
		{ID: 9, Address: "Unknown Street 5, Merano", CustomerName: "Bar Centrale", Status: "Erledigt"},
	})

	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
	if markers[0].Color != "black" {
		t.Errorf("color = %q, approximate hit must override status color", markers[0].Color)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	if warnings[0].Reason != models.WarnApproximate {
		t.Errorf("reason = %q", warnings[0].Reason)
	}
	if warnings[0].Locality != "Merano" {
		t.Errorf("locality = %q, want Merano", warnings[0].Locality)
	}
}

func TestBuildRadiusFilter(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	b := newTestBuilder(t, center, 120, map[string]models.Coordinates{
		// ~0 km from center.
		"Near, " + testSuffix: {Lat: 46.67, Lon: 11.15},
		// Milan, roughly 250 km away.
		"Far, " + testSuffix: {Lat: 45.4642, Lon: 9.19},
	})

	markers, warnings := b.Build(context.Background(), []models.Ticket{
		{ID: 1, Address: "Near", CustomerName: "A", Status: "Offen"},
		{ID: 2, Address: "Far", CustomerName: "B", Status: "Offen"},
	})

	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
	if markers[0].TicketID != 1 {
		t.Errorf("kept ticket %d, want the in-radius one", markers[0].TicketID)
	}
	// Out-of-radius tickets are dropped silently, not warned about.
	if len(warnings) != 0 {
		t.Errorf("warnings = %+v, want none", warnings)
	}
}

func TestBuildRadiusBoundaryInclusive(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	edge := models.Coordinates{Lat: 46.67, Lon: 12.15}
	beyond := models.Coordinates{Lat: 46.67, Lon: 12.16}
	// The radius is the exact distance to the edge point, so the edge
	// ticket sits precisely on the boundary.
	radius := geo.Distance(center, edge)

	b := newTestBuilder(t, center, radius, map[string]models.Coordinates{
		"Edge, " + testSuffix:   edge,
		"Beyond, " + testSuffix: beyond,
	})

	markers, warnings := b.Build(context.Background(), []models.Ticket{
		{ID: 1, Address: "Edge", CustomerName: "A", Status: "Offen"},
		{ID: 2, Address: "Beyond", CustomerName: "B", Status: "Offen"},
	})

	if len(markers) != 1 {
		t.Fatalf("markers = %d, want exactly the boundary ticket", len(markers))
	}
	if markers[0].TicketID != 1 {
		t.Errorf("kept ticket %d, want the one exactly at the radius", markers[0].TicketID)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %+v, want none", warnings)
	}
}

func TestBuildEscapesPopupHTML(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	b := newTestBuilder(t, center, 120, map[string]models.Coordinates{
		"Via Roma 1, Merano, " + testSuffix: {Lat: 46.6713, Lon: 11.1594},
	})

	markers, _ := b.Build(context.Background(), []models.Ticket{
		{ID: 3, Address: "Via Roma 1, Merano", CustomerName: `<script>alert("x")</script>`, Title: "Fiber & Copper", Status: "Offen"},
	})

	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
	popup := markers[0].Popup
	if strings.Contains(popup, "<script>") {
		t.Error("popup contains unescaped script tag")
	}
	if !strings.Contains(popup, "&lt;script&gt;") {
		t.Error("popup missing escaped customer name")
	}
	if !strings.Contains(popup, "Fiber &amp; Copper") {
		t.Error("popup missing escaped title")
	}
}

func TestBuildIdempotentWithWarmCache(t *testing.T) {
	center := models.Coordinates{Lat: 46.67, Lon: 11.15}
	b := newTestBuilder(t, center, 120, map[string]models.Coordinates{
		"Via Roma 1, Merano, " + testSuffix: {Lat: 46.6713, Lon: 11.1594},
	})
	tickets := []models.Ticket{
		{ID: 42, Address: "Via Roma 1, Merano", CustomerName: "Hotel Alpenblick", Status: "Offen"},
	}

	first, _ := b.Build(context.Background(), tickets)
	second, _ := b.Build(context.Background(), tickets)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("markers = %d then %d, want 1 each", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("repeated build differs:\n%+v\n%+v", first[0], second[0])
	}
}

func TestColorScheme(t *testing.T) {
	colors := DefaultColorScheme()
	tests := []struct {
		name        string
		status      models.Status
		approximate bool
		expected    string
	}{
		{"open", models.StatusOpen, false, "red"},
		{"in progress", models.StatusInProgress, false, "orange"},
		{"done", models.StatusDone, false, "green"},
		{"unknown", models.StatusUnknown, false, "blue"},
		{"approximate overrides done", models.StatusDone, true, "black"},
		{"approximate overrides open", models.StatusOpen, true, "black"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colors.colorFor(tt.status, tt.approximate); got != tt.expected {
				t.Errorf("colorFor(%v, %v) = %q, want %q", tt.status, tt.approximate, got, tt.expected)
			}
		})
	}
}
