// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package tickets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/streetmapper/ticketmap/internal/cachestore"
	"github.com/streetmapper/ticketmap/internal/logging"
	"github.com/streetmapper/ticketmap/internal/models"
)

// Snapshot keys in the API cache store.
const (
	keyTimestamp = "timestamp"
	keyData      = "data"
)

// Result is the outcome of one ticket lookup through the cached source.
type Result struct {
	Tickets   []models.Ticket
	FetchedAt time.Time
	// FromCache is true when the snapshot was reused instead of fetching.
	FromCache bool
	// Unchanged is true when a fresh fetch returned a payload identical to
	// the previous snapshot. Always false for cache hits.
	Unchanged bool
}

// CachedSource wraps a Client with the persisted fetch snapshot. Only one
// snapshot is kept; every fresh fetch overwrites it.
type CachedSource struct {
	client  *Client
	store   cachestore.Store
	enabled bool
	timeout time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewCachedSource creates a cached ticket source. enabled toggles snapshot
// reuse; timeout bounds snapshot age (a snapshot exactly timeout old counts
// as expired).
func NewCachedSource(client *Client, store cachestore.Store, enabled bool, timeout time.Duration) *CachedSource {
	return &CachedSource{
		client:  client,
		store:   store,
		enabled: enabled,
		timeout: timeout,
		now:     time.Now,
	}
}

// Tickets returns the ticket list, served from the snapshot when it is
// enabled and fresh enough, otherwise fetched from the API. A failed fetch
// returns an error and leaves the snapshot untouched so the next run can
// retry against the previous baseline.
func (s *CachedSource) Tickets(ctx context.Context) (*Result, error) {
	snapshot, err := s.store.Load()
	if err != nil {
		logging.Warn().Err(err).Msg("ticket snapshot unreadable, treating as empty")
		snapshot = map[string]json.RawMessage{}
	}

	if res, ok := s.fromSnapshot(snapshot); ok {
		return res, nil
	}

	logging.Info().Msg("fetching fresh ticket data from API")
	tickets, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}

	data, err := json.Marshal(tickets)
	if err != nil {
		return nil, fmt.Errorf("encode ticket snapshot: %w", err)
	}

	res := &Result{
		Tickets:   tickets,
		FetchedAt: s.now(),
		Unchanged: jsonEqual(data, snapshot[keyData]),
	}

	ts, err := json.Marshal(res.FetchedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot timestamp: %w", err)
	}
	if err := s.store.Save(map[string]json.RawMessage{
		keyTimestamp: ts,
		keyData:      data,
	}); err != nil {
		// A stale snapshot only costs an extra fetch next run.
		logging.Warn().Err(err).Msg("failed to save ticket snapshot")
	}

	logging.Info().Int("tickets", len(tickets)).Bool("unchanged", res.Unchanged).Msg("fetched tickets from API")
	return res, nil
}

// fromSnapshot serves the cached list when caching is enabled and the
// snapshot is younger than the timeout. A missing or malformed timestamp
// invalidates the snapshot and forces a refetch.
func (s *CachedSource) fromSnapshot(snapshot map[string]json.RawMessage) (*Result, bool) {
	if !s.enabled {
		return nil, false
	}

	rawTS, ok := snapshot[keyTimestamp]
	if !ok {
		return nil, false
	}
	var tsStr string
	if err := json.Unmarshal(rawTS, &tsStr); err != nil {
		logging.Warn().Err(err).Msg("invalid snapshot timestamp, refetching")
		return nil, false
	}
	fetchedAt, err := time.Parse(time.RFC3339, tsStr)
	if err != nil {
		logging.Warn().Err(err).Str("timestamp", tsStr).Msg("invalid snapshot timestamp, refetching")
		return nil, false
	}

	age := s.now().Sub(fetchedAt)
	if age >= s.timeout {
		logging.Info().Dur("age", age).Msg("ticket snapshot expired")
		return nil, false
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(snapshot[keyData], &tickets); err != nil {
		logging.Warn().Err(err).Msg("invalid snapshot data, refetching")
		return nil, false
	}

	logging.Info().Dur("age", age).Int("tickets", len(tickets)).Msg("using cached ticket data")
	return &Result{Tickets: tickets, FetchedAt: fetchedAt, FromCache: true}, true
}

// jsonEqual compares two JSON documents ignoring whitespace. The persisted
// snapshot is stored indented, so a byte comparison needs compaction first.
func jsonEqual(a, b json.RawMessage) bool {
	if a == nil || b == nil {
		return false
	}
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return false
	}
	if err := json.Compact(&cb, b); err != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
