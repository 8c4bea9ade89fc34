package wgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"rostercheck/internal/fetcher"
)

// TankStats returns the per-vehicle statistics of accountID. Accounts with
// hidden or no statistics yield an empty slice.
func (c *Client) TankStats(ctx context.Context, accountID int64) ([]TankStats, error) {
	id := strconv.FormatInt(accountID, 10)
	params := url.Values{}
	params.Set("account_id", id)
	key := fetcher.Key{Operation: OpTanksStats, Query: id}

	env, _, err := c.call(ctx, key, c.endpoint("tanks/stats", params), c.maxAges.TankStats)
	if err != nil {
		return nil, err
	}
	var byAccount map[string][]tankPlayer
	if err := json.Unmarshal(env.Data, &byAccount); err != nil {
		return nil, fmt.Errorf("wgapi: decode tank stats: %w", err)
	}
	players := byAccount[id]
	stats := make([]TankStats, 0, len(players))
	for _, p := range players {
		s := p.All
		s.TankID = p.TankID
		stats = append(stats, s)
	}
	return stats, nil
}

// Vehicles returns the vehicle encyclopedia keyed by tank id.
func (c *Client) Vehicles(ctx context.Context) (map[int64]Vehicle, error) {
	params := url.Values{}
	params.Set("fields", "tank_id,name,tier,type")
	key := fetcher.Key{Operation: OpVehicles, Query: "all"}

	env, _, err := c.call(ctx, key, c.endpoint("encyclopedia/vehicles", params), c.maxAges.Reference)
	if err != nil {
		return nil, err
	}
	var byID map[string]Vehicle
	if err := json.Unmarshal(env.Data, &byID); err != nil {
		return nil, fmt.Errorf("wgapi: decode vehicles: %w", err)
	}
	vehicles := make(map[int64]Vehicle, len(byID))
	for raw, v := range byID {
		if v.TankID == 0 {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			v.TankID = id
		}
		vehicles[v.TankID] = v
	}
	return vehicles, nil
}

// ExpectedValues downloads the WN8 reference table keyed by tank id. The
// table is a plain JSON document, not an API envelope.
func (c *Client) ExpectedValues(ctx context.Context) (map[int64]ExpectedValues, error) {
	if c.expectedValuesURL == "" {
		return nil, errors.New("wgapi: expected values url is not configured")
	}
	key := fetcher.Key{Operation: OpWn8ExpectedValues, Query: "current"}
	content, err := c.fetcher.Fetch(ctx, key, c.expectedValuesURL, c.maxAges.Reference, false)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Data []ExpectedValues `json:"data"`
	}
	if err := json.Unmarshal(content.Body, &doc); err != nil {
		c.fetcher.Invalidate(key)
		return nil, fmt.Errorf("wgapi: decode expected values: %w", err)
	}
	if len(doc.Data) == 0 {
		c.fetcher.Invalidate(key)
		return nil, errors.New("wgapi: expected values table is empty")
	}
	values := make(map[int64]ExpectedValues, len(doc.Data))
	for _, v := range doc.Data {
		values[v.TankID] = v
	}
	return values, nil
}
