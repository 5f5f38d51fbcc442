// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package mapbuild turns raw tickets into map markers: it resolves each
// address, filters by distance from the center point, renders popup HTML,
// and collects the warning list for imprecisely located tickets.
package mapbuild

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/streetmapper/ticketmap/internal/geo"
	"github.com/streetmapper/ticketmap/internal/geocode"
	"github.com/streetmapper/ticketmap/internal/i18n"
	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/models"
)

// ColorScheme maps normalized statuses to marker colors. It is built once
// at startup and injected; no global mutable tables.
type ColorScheme struct {
	Open       string
	InProgress string
	Done       string
	// Default is used for unrecognized statuses.
	Default string
	// Approximate overrides the status color for municipality-level hits.
	Approximate string
}

// DefaultColorScheme returns the standard marker colors.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Open:        "red",
		InProgress:  "orange",
		Done:        "green",
		Default:     "blue",
		Approximate: "black",
	}
}

// colorFor picks the marker color for a resolution.
func (c ColorScheme) colorFor(status models.Status, approximate bool) string {
	if approximate {
		return c.Approximate
	}
	switch status {
	case models.StatusDone:
		return c.Done
	case models.StatusInProgress:
		return c.InProgress
	case models.StatusOpen:
		return c.Open
	default:
		return c.Default
	}
}

// popupTemplate renders the marker popup. Everything except the ticket
// link is escaped by html/template.
const popupTemplate = `<div style="width:300px;">
  <table style="width:100%; border-collapse:collapse;">
    <tr style="background:#f0f0f0; font-weight:bold;">
      <td style="padding:5px; border:1px solid #ccc;">{{.Lang.Ticket}}</td>
      <td style="padding:5px; border:1px solid #ccc;">{{.Lang.Customer}}</td>
      <td style="padding:5px; border:1px solid #ccc;">{{.Lang.Address}}</td>
      <td style="padding:5px; border:1px solid #ccc;">{{.Lang.Type}}</td>
    </tr>
    <tr>
      <td style="padding:5px; border:1px solid #ccc;"><a href="{{.TicketURL}}" target="_blank">{{.TicketID}}</a></td>
      <td style="padding:5px; border:1px solid #ccc;">{{.CustomerName}}</td>
      <td style="padding:5px; border:1px solid #ccc;">{{.Address}}</td>
      <td style="padding:5px; border:1px solid #ccc;">{{.Title}}</td>
    </tr>
  </table>
</div>`

// popupData feeds popupTemplate.
type popupData struct {
	Lang         i18n.Table
	TicketURL    template.URL
	TicketID     int
	CustomerName string
	Address      string
	Title        string
}

// Builder builds markers and warnings for one run.
type Builder struct {
	resolver      *geocode.Resolver
	center        models.Coordinates
	radiusKm      float64
	colors        ColorScheme
	lang          i18n.Table
	ticketBaseURL string
	popup         *template.Template
}

// NewBuilder creates a marker builder.
func NewBuilder(resolver *geocode.Resolver, center models.Coordinates, radiusKm float64, colors ColorScheme, lang i18n.Table, ticketBaseURL string) *Builder {
	return &Builder{
		resolver:      resolver,
		center:        center,
		radiusKm:      radiusKm,
		colors:        colors,
		lang:          lang,
		ticketBaseURL: ticketBaseURL,
		popup:         template.Must(template.New("popup").Parse(popupTemplate)),
	}
}

// Build resolves every ticket and produces the marker and warning lists.
//
// Per ticket: resolution failure yields a not_found warning and no marker;
// a hit beyond the radius is dropped silently (out of scope, not a
// warning); an in-radius hit yields a marker, plus an approximate warning
// when only the municipality was located.
func (b *Builder) Build(ctx context.Context, tickets []models.Ticket) ([]models.Marker, []models.Warning) {
	markers := make([]models.Marker, 0, len(tickets))
	var warnings []models.Warning

	logging.Info().Int("tickets", len(tickets)).Msg("processing tickets")

	for _, ticket := range tickets {
		res := b.resolver.Resolve(ctx, ticket.Address)
		if !res.Found {
			logging.Warn().Int("ticket_id", ticket.ID).Str("address", ticket.Address).Msg("skipping ticket, geocoding failed")
			warnings = append(warnings, models.Warning{
				TicketID:     ticket.ID,
				CustomerName: ticket.CustomerName,
				Address:      ticket.Address,
				Reason:       models.WarnNotFound,
			})
			continue
		}

		distance := geo.Distance(b.center, res.Coords)
		if distance > b.radiusKm {
			logging.Debug().Int("ticket_id", ticket.ID).Float64("distance_km", distance).Msg("ticket outside radius")
			continue
		}

		popup, err := b.renderPopup(ticket)
		if err != nil {
			// Template data is plain values; a failure here is a bug.
			logging.Error().Err(err).Int("ticket_id", ticket.ID).Msg("popup rendering failed")
			continue
		}

		markers = append(markers, models.Marker{
			Coords:   res.Coords,
			Popup:    popup,
			Tooltip:  fmt.Sprintf("%d - %s", ticket.ID, ticket.CustomerName),
			Color:    b.colors.colorFor(models.NormalizeStatus(ticket.Status), res.Approximate),
			TicketID: ticket.ID,
		})

		if res.Approximate {
			warnings = append(warnings, models.Warning{
				TicketID:     ticket.ID,
				CustomerName: ticket.CustomerName,
				Address:      ticket.Address,
				Reason:       models.WarnApproximate,
				Locality:     res.Locality,
			})
		}
	}

	logging.Info().Int("markers", len(markers)).Int("warnings", len(warnings)).Float64("radius_km", b.radiusKm).Msg("built markers")
	return markers, warnings
}

func (b *Builder) renderPopup(ticket models.Ticket) (string, error) {
	var buf bytes.Buffer
	err := b.popup.Execute(&buf, popupData{
		Lang:         b.lang,
		TicketURL:    template.URL(fmt.Sprintf("%s/Ticket/view/id/%d", b.ticketBaseURL, ticket.ID)),
		TicketID:     ticket.ID,
		CustomerName: ticket.CustomerName,
		Address:      ticket.Address,
		Title:        ticket.Title,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
