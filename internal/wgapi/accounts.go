package wgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
	"rostercheck/internal/textutil"
)

// FindPlayer searches for gamerTag with exact matching. The first result must
// equal the query ignoring case; its nickname carries the canonical casing.
func (c *Client) FindPlayer(ctx context.Context, gamerTag string) (Account, error) {
	gamerTag = strings.TrimSpace(gamerTag)
	if gamerTag == "" {
		return Account{}, ErrNoMatch
	}
	if utf8.RuneCountInString(gamerTag) > MaxGamerTagLength {
		return Account{}, fmt.Errorf("%w: %q has %d characters", ErrTagTooLong, gamerTag, utf8.RuneCountInString(gamerTag))
	}
	params := url.Values{}
	params.Set("search", gamerTag)
	params.Set("type", "exact")
	key := fetcher.Key{Operation: OpAccountList, Query: gamerTag}

	env, content, err := c.call(ctx, key, c.endpoint("account/list", params), c.maxAges.Account)
	if err != nil {
		return Account{}, err
	}
	if env.Meta.Count < 1 {
		return Account{}, fmt.Errorf("%w: gamer tag %q", ErrNoMatch, gamerTag)
	}
	var accounts []accountSummary
	if err := json.Unmarshal(env.Data, &accounts); err != nil {
		return Account{}, fmt.Errorf("wgapi: decode accounts: %w", err)
	}
	if len(accounts) == 0 {
		return Account{}, fmt.Errorf("%w: gamer tag %q", ErrNoMatch, gamerTag)
	}
	first := accounts[0]
	if !textutil.EqualFold(first.Nickname, gamerTag) {
		c.logger.Debug("exact search returned a different nickname",
			logging.String("gamer_tag", gamerTag),
			logging.String("found", first.Nickname),
			logging.Int("results", env.Meta.Count))
		return Account{}, fmt.Errorf("%w: %d results for %q, first is %q", ErrNoMatch, env.Meta.Count, gamerTag, first.Nickname)
	}
	return Account{ID: first.AccountID, Nickname: first.Nickname, CapturedAt: content.CapturedAt}, nil
}

// CurrentClan returns the clan accountID belongs to right now. An account
// without a clan yields a zero Membership and no error.
func (c *Client) CurrentClan(ctx context.Context, accountID int64) (Membership, error) {
	id := strconv.FormatInt(accountID, 10)
	params := url.Values{}
	params.Set("account_id", id)
	params.Set("extra", "clan")
	key := fetcher.Key{Operation: OpClansAccountinfo, Query: id}

	env, _, err := c.call(ctx, key, c.endpoint("clans/accountinfo", params), c.maxAges.Membership)
	if err != nil {
		return Membership{}, err
	}
	if env.Meta.Count != 1 {
		return Membership{}, nil
	}
	var byAccount map[string]*accountClan
	if err := json.Unmarshal(env.Data, &byAccount); err != nil {
		return Membership{}, fmt.Errorf("wgapi: decode clan membership: %w", err)
	}
	info := byAccount[id]
	if info == nil || info.ClanID == nil {
		return Membership{}, nil
	}
	m := Membership{ClanID: info.ClanID}
	if info.Clan != nil {
		m.ClanTag = info.Clan.Tag
	}
	return m, nil
}
