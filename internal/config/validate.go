// Ticketmap - Support Ticket Geocoding and Map Generation
// Copyright 2026 Streetmapper contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streetmapper/ticketmap

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags plus the cross-field rules the tags cannot
// express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	// Exactly one way to determine the center.
	hasPoint := len(c.Map.CenterPoint) > 0
	hasAddress := c.Map.CenterAddress != ""
	switch {
	case !hasPoint && !hasAddress:
		return fmt.Errorf("map: either center_point or center_address must be set")
	case hasPoint && hasAddress:
		return fmt.Errorf("map: center_point and center_address are mutually exclusive")
	case hasPoint && len(c.Map.CenterPoint) != 2:
		return fmt.Errorf("map: center_point must be a [lat, lon] pair, got %d elements", len(c.Map.CenterPoint))
	}

	if hasPoint {
		lat, lon := c.Map.CenterPoint[0], c.Map.CenterPoint[1]
		if lat < -90 || lat > 90 {
			return fmt.Errorf("map: center latitude %v out of range [-90, 90]", lat)
		}
		if lon < -180 || lon > 180 {
			return fmt.Errorf("map: center longitude %v out of range [-180, 180]", lon)
		}
	}

	if c.Cache.Store == "badger" && c.Cache.BadgerPath == "" {
		return fmt.Errorf("cache: badger_path is required when store is badger")
	}

	return nil
}
