// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package i18n holds the display strings for the rendered map in the three
// supported locales. Tables are immutable; callers select one at startup
// via ParseLocale and pass it down by value.
package i18n

import "strings"

// Locale enumerates the supported output languages.
type Locale int

const (
	// LocaleDE is German, the default.
	LocaleDE Locale = iota
	LocaleIT
	LocaleEN
)

// String returns the ISO 639-1 code for the locale.
func (l Locale) String() string {
	switch l {
	case LocaleIT:
		return "it"
	case LocaleEN:
		return "en"
	default:
		return "de"
	}
}

// ParseLocale maps a language code to a Locale. Unrecognized codes fall
// back to German.
func ParseLocale(code string) Locale {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "it":
		return LocaleIT
	case "en":
		return LocaleEN
	default:
		return LocaleDE
	}
}

// Table is the set of display strings for one locale.
type Table struct {
	WarningHead    string
	ApproxMarker   string
	NotFoundMarker string
	LayerTickets   string
	Fullscreen     string
	FullscreenExit string
	GeneratedAt    string
	Ticket         string
	Customer       string
	Address        string
	Type           string
}

var tables = map[Locale]Table{
	LocaleDE: {
		WarningHead:    "Achtung: Folgende Tickets konnten nicht exakt lokalisiert werden:",
		ApproxMarker:   "(nur Gemeinde lokalisiert)",
		NotFoundMarker: "(keine Lokalisierung möglich)",
		LayerTickets:   "Tickets",
		Fullscreen:     "Vollbildmodus",
		FullscreenExit: "Vollbild verlassen",
		GeneratedAt:    "Generiert um",
		Ticket:         "Ticket",
		Customer:       "Kunde",
		Address:        "Adresse",
		Type:           "Art",
	},
	LocaleIT: {
		WarningHead:    "Attenzione: I seguenti Ticket non sono stati localizzati esattamente:",
		ApproxMarker:   "(solo il comune localizzato)",
		NotFoundMarker: "(localizzazione non riuscita)",
		LayerTickets:   "Ticket",
		Fullscreen:     "Schermo intero",
		FullscreenExit: "Esci da schermo intero",
		GeneratedAt:    "Generato alle",
		Ticket:         "Ticket",
		Customer:       "Cliente",
		Address:        "Indirizzo",
		Type:           "Tipo",
	},
	LocaleEN: {
		WarningHead:    "Warning: The following Tickets could not be located exactly:",
		ApproxMarker:   "(only municipality found)",
		NotFoundMarker: "(location failed)",
		LayerTickets:   "Tickets",
		Fullscreen:     "Fullscreen",
		FullscreenExit: "Exit Fullscreen",
		GeneratedAt:    "Generated at",
		Ticket:         "Ticket",
		Customer:       "Customer",
		Address:        "Address",
		Type:           "Type",
	},
}

// Strings returns the display table for the locale, falling back to German
// for unknown values.
func Strings(l Locale) Table {
	if t, ok := tables[l]; ok {
		return t
	}
	return tables[LocaleDE]
}
