package wgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
	"rostercheck/internal/textutil"
)

// FindClan returns the id of the clan whose tag equals tag, ignoring case.
// The search must return exactly one clan; anything else is ErrNoMatch.
func (c *Client) FindClan(ctx context.Context, tag string) (int64, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, ErrNoMatch
	}
	params := url.Values{}
	params.Set("search", tag)
	params.Set("limit", "1")
	key := fetcher.Key{Operation: OpFindClan, Query: tag}

	env, _, err := c.call(ctx, key, c.endpoint("clans/list", params), c.maxAges.Clan)
	if err != nil {
		return 0, err
	}
	var clans []clanSummary
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &clans); err != nil {
			return 0, fmt.Errorf("wgapi: decode clans: %w", err)
		}
	}
	if len(clans) != 1 {
		c.logger.Debug("clan search did not return a single result",
			logging.String("clan_tag", tag),
			logging.Int("results", len(clans)))
		return 0, fmt.Errorf("%w: %d clans for tag %q", ErrNoMatch, len(clans), tag)
	}
	if !textutil.EqualFold(clans[0].Tag, tag) {
		c.logger.Debug("clan search returned a different tag",
			logging.String("clan_tag", tag),
			logging.String("found_tag", clans[0].Tag))
		return 0, fmt.Errorf("%w: search for %q found %q", ErrNoMatch, tag, clans[0].Tag)
	}
	return clans[0].ClanID, nil
}
