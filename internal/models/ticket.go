// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package models defines the data types shared across the ticketmap pipeline:
// tickets fetched from the remote API, geocoding results and cache entries,
// and the marker/warning records consumed by the map renderer.
package models

// Ticket is one support ticket as returned by the ticket API.
// Tickets are immutable once fetched; they live for a single pipeline run.
type Ticket struct {
	ID           int    `json:"Id"`
	Address      string `json:"Address"`
	CustomerName string `json:"CustomerName"`
	Title        string `json:"Title"`
	// Status is free text and locale-variant ("Offen", "In Bearbeitung", ...).
	// Use NormalizeStatus to map it to a Status value.
	Status string `json:"Status"`
}
