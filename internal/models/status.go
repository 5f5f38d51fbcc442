// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package models

import "strings"

// Status is the normalized ticket status. The API delivers status as free
// text in varying spellings and casings; the enum keeps color lookups and
// comparisons away from raw strings.
type Status int

const (
	// StatusUnknown is the sentinel for unrecognized status text.
	StatusUnknown Status = iota
	StatusOpen
	StatusInProgress
	StatusDone
)

// String returns the canonical (German) status label.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "offen"
	case StatusInProgress:
		return "in bearbeitung"
	case StatusDone:
		return "erledigt"
	default:
		return "unknown"
	}
}

// NormalizeStatus maps free-text status to a Status value. Matching is
// case-insensitive, ignores spaces, and checks substrings in fixed priority
// order: erledigt > bearbeitung > offen. Anything else is StatusUnknown.
func NormalizeStatus(raw string) Status {
	s := strings.ReplaceAll(strings.ToLower(raw), " ", "")
	switch {
	case strings.Contains(s, "erledigt"):
		return StatusDone
	case strings.Contains(s, "bearbeitung"):
		return StatusInProgress
	case strings.Contains(s, "offen"):
		return StatusOpen
	default:
		return StatusUnknown
	}
}
