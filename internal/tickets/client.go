// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

// Package tickets fetches support tickets from the remote ticket API and
// maintains the time-bounded fetch snapshot between runs.
package tickets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/streetmapper/ticketmap/internal/config"
	"github.com/streetmapper/ticketmap/internal/models"
)

// Client issues the ticket search request against the remote API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	typeID     int
	statusID   int
}

// NewClient creates a ticket API client from configuration.
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		typeID:     cfg.TypeID,
		statusID:   cfg.StatusID,
	}
}

// Fetch performs one search request and returns the ticket list. A failed
// fetch returns a non-nil error and no tickets: callers can tell an API
// failure from a legitimately empty result.
func (c *Client) Fetch(ctx context.Context) ([]models.Ticket, error) {
	q := url.Values{}
	q.Set("token", c.token)
	q.Set("params[typeId]", strconv.Itoa(c.typeID))
	q.Set("params[status]", strconv.Itoa(c.statusID))
	reqURL := c.baseURL + "/api2/Ticket/search/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create ticket request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticket API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticket API returned status %d", resp.StatusCode)
	}

	var tickets []models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return nil, fmt.Errorf("decode ticket response: %w", err)
	}

	return tickets, nil
}
