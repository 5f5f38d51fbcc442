// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package models

// Marker is one renderable map pin: a projection of a ticket plus its
// resolution metadata. Markers are built fresh every run and never persisted.
type Marker struct {
	Coords   Coordinates `json:"coords"`
	Popup    string      `json:"popup"`
	Tooltip  string      `json:"tooltip"`
	Color    string      `json:"color"`
	TicketID int         `json:"ticket_id"`
}

// WarnReason classifies why a ticket landed on the warning list.
type WarnReason string

const (
	// WarnApproximate marks tickets located only to municipality granularity.
	WarnApproximate WarnReason = "approximate"
	// WarnNotFound marks tickets no geocoding tier could locate.
	WarnNotFound WarnReason = "not_found"
)

// Warning is one entry of the on-map warning panel: a ticket that could not
// be placed exactly, surfaced for manual review.
type Warning struct {
	TicketID     int
	CustomerName string
	Address      string
	Reason       WarnReason
	// Locality carries the resolved municipality for approximate entries.
	Locality string
}
