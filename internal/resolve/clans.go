package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
	"rostercheck/internal/roster"
	"rostercheck/internal/wgapi"
)

// ClanLookup finds a clan id by tag. *wgapi.Client implements it.
type ClanLookup interface {
	FindClan(ctx context.Context, tag string) (int64, error)
}

// ClanResolver resolves clan tags one row at a time. It is not safe for
// concurrent use.
type ClanResolver struct {
	lookup   ClanLookup
	logger   *slog.Logger
	resolved map[string]int64
	missing  map[string]struct{}
}

// NewClanResolver creates a resolver with empty per-run memories.
func NewClanResolver(lookup ClanLookup, logger *slog.Logger) *ClanResolver {
	return &ClanResolver{
		lookup:   lookup,
		logger:   logging.NewComponentLogger(logger, "clan-resolver"),
		resolved: make(map[string]int64),
		missing:  make(map[string]struct{}),
	}
}

// Resolve sets ClanID on every record with a clan tag it can resolve and
// returns how many records it invalidated.
func (c *ClanResolver) Resolve(ctx context.Context, records []*roster.Record, progress ProgressFunc) int {
	var targets []*roster.Record
	for _, r := range records {
		if r.ClanTag != "" {
			targets = append(targets, r)
		}
	}

	invalid := 0
	for i, r := range targets {
		if !c.resolveOne(ctx, r) {
			invalid++
		}
		progress.report(i+1, len(targets))
	}
	c.logger.Info("clan resolution finished",
		logging.Int("rows", len(targets)),
		logging.Int("clans", len(c.resolved)),
		logging.Int("missing", len(c.missing)),
		logging.Int("invalidated", invalid))
	return invalid
}

func (c *ClanResolver) resolveOne(ctx context.Context, r *roster.Record) bool {
	tag := strings.ToUpper(r.ClanTag)

	if _, ok := c.missing[tag]; ok {
		r.Invalidate(fmt.Sprintf("Could not find a clan with the tag [%s]", tag))
		return false
	}
	if id, ok := c.resolved[tag]; ok {
		applyClan(r, tag, id)
		return true
	}
	if id, ok := c.find(ctx, r, tag); ok {
		applyClan(r, tag, id)
		return true
	}

	urlTag := strings.ToUpper(r.ClanTagFromURL)
	if urlTag == "" || urlTag == tag {
		r.Invalidate(fmt.Sprintf("Could not find a clan with the tag [%s]", tag))
		return false
	}
	if _, ok := c.missing[urlTag]; ok {
		r.Invalidate(fmt.Sprintf("Could not find a clan with the tag [%s] (extracted from the URL)", urlTag))
		return false
	}
	id, ok := c.resolved[urlTag]
	if !ok {
		id, ok = c.find(ctx, r, urlTag)
	}
	if !ok {
		r.Invalidate(fmt.Sprintf("Could not find a clan with the tag [%s]", tag))
		return false
	}

	logging.WarnWithContext(c.logger, "clan tag not found, matched by the clan url",
		"clan_tag_mismatch",
		logging.String(logging.FieldLine, r.Label()),
		logging.String("clan_tag", tag),
		logging.String("url_clan_tag", urlTag),
		logging.String(logging.FieldImpact, "clan tag replaced by the url tag"),
		logging.String(logging.FieldErrorHint, "check the clan tag typed in the roster"))
	r.ClanTag = urlTag
	applyClan(r, urlTag, id)
	return true
}

// find queries the API and updates the per-run memories. Only a definite
// "no such clan" is remembered; transport failures fail this row alone.
func (c *ClanResolver) find(ctx context.Context, r *roster.Record, tag string) (int64, bool) {
	id, err := c.lookup.FindClan(ctx, tag)
	if err == nil {
		c.resolved[tag] = id
		return id, true
	}
	if isDefiniteMiss(err) {
		c.missing[tag] = struct{}{}
		c.logger.Debug("clan not found",
			logging.String(logging.FieldLine, r.Label()),
			logging.String("clan_tag", tag),
			logging.Error(err))
	} else {
		c.logger.Warn("clan lookup failed",
			logging.String(logging.FieldLine, r.Label()),
			logging.String("clan_tag", tag),
			logging.Error(err))
	}
	return 0, false
}

func applyClan(r *roster.Record, tag string, id int64) {
	r.SetClanID(id)
	if strings.TrimSpace(r.ClanURL) != "" {
		r.ClanURL = roster.CanonicalClanURL(tag)
	}
	r.ClanTagFromURL = tag
}

func isDefiniteMiss(err error) bool {
	return errors.Is(err, wgapi.ErrNoMatch) || errors.Is(err, fetcher.ErrNotFound)
}
