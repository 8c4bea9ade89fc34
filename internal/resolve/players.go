package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
	"rostercheck/internal/performance"
	"rostercheck/internal/roster"
	"rostercheck/internal/wgapi"
)

// DefaultParallelism is the number of concurrent player workers.
const DefaultParallelism = 4

// PlayerLookup is the per-worker API handle. *wgapi.Client implements it.
type PlayerLookup interface {
	FindPlayer(ctx context.Context, gamerTag string) (wgapi.Account, error)
	CurrentClan(ctx context.Context, accountID int64) (wgapi.Membership, error)
	TankStats(ctx context.Context, accountID int64) ([]wgapi.TankStats, error)
}

// PlayerOptions configures a PlayerResolver.
type PlayerOptions struct {
	Pool        *fetcher.Pool[PlayerLookup]
	Parallelism int
	// Reference enables the performance figures when set.
	Reference *performance.Reference
	Logger    *slog.Logger
}

// PlayerResolver resolves gamer tags with a bounded worker pool.
type PlayerResolver struct {
	pool        *fetcher.Pool[PlayerLookup]
	parallelism int
	reference   *performance.Reference
	logger      *slog.Logger
}

// NewPlayerResolver validates opts. The pool must hold at least one client
// per worker.
func NewPlayerResolver(opts PlayerOptions) (*PlayerResolver, error) {
	if opts.Pool == nil {
		return nil, errors.New("resolve: client pool is required")
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if opts.Pool.Size() < parallelism {
		return nil, fmt.Errorf("resolve: pool size %d is smaller than parallelism %d", opts.Pool.Size(), parallelism)
	}
	return &PlayerResolver{
		pool:        opts.Pool,
		parallelism: parallelism,
		reference:   opts.Reference,
		logger:      logging.NewComponentLogger(opts.Logger, "player-resolver"),
	}, nil
}

// Resolve looks up every record with a non-blank gamer tag exactly once and
// returns how many it invalidated. It returns after every worker finished.
// An error is returned only when ctx ends before a client could be checked
// out.
func (p *PlayerResolver) Resolve(ctx context.Context, records []*roster.Record, progress ProgressFunc) (int, error) {
	var targets []*roster.Record
	for _, r := range records {
		if strings.TrimSpace(r.GamerTag) != "" {
			targets = append(targets, r)
		}
	}

	var invalid, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for _, r := range targets {
		g.Go(func() error {
			ok, err := p.resolveOne(gctx, r)
			if err != nil {
				return err
			}
			if !ok {
				invalid.Add(1)
			}
			progress.report(int(done.Add(1)), len(targets))
			return nil
		})
	}
	err := g.Wait()

	p.logger.Info("player resolution finished",
		logging.Int("rows", len(targets)),
		logging.Int64("invalidated", invalid.Load()),
		logging.Bool("performance", p.reference != nil))
	if err != nil {
		return int(invalid.Load()), fmt.Errorf("resolve players: %w", err)
	}
	return int(invalid.Load()), nil
}

func (p *PlayerResolver) resolveOne(ctx context.Context, r *roster.Record) (bool, error) {
	client, err := p.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer p.pool.Release(client)

	tag := strings.TrimSpace(r.GamerTag)
	account, err := client.FindPlayer(ctx, tag)
	if err != nil {
		p.fail(r, tag, err)
		return false, nil
	}
	membership, err := client.CurrentClan(ctx, account.ID)
	if err != nil {
		p.fail(r, tag, err)
		return false, nil
	}

	r.Player = &roster.Player{
		ID:             account.ID,
		GamerTag:       account.Nickname,
		CurrentClanID:  membership.ClanID,
		CurrentClanTag: membership.ClanTag,
		Moment:         account.CapturedAt,
	}
	if account.Nickname != "" && account.Nickname != r.GamerTag {
		p.logger.Debug("gamer tag rewritten to canonical casing",
			logging.String(logging.FieldLine, r.Label()),
			logging.String("gamer_tag", r.GamerTag),
			logging.String("canonical", account.Nickname))
		r.GamerTag = account.Nickname
	}

	if p.reference != nil {
		p.attachPerformance(ctx, client, r, account.ID)
	}
	return true, nil
}

// attachPerformance fills the figures. Failures leave them empty and never
// invalidate the row.
func (p *PlayerResolver) attachPerformance(ctx context.Context, client PlayerLookup, r *roster.Record, accountID int64) {
	stats, err := client.TankStats(ctx, accountID)
	if err != nil {
		logging.WarnWithContext(p.logger, "tank statistics unavailable",
			"performance_unavailable",
			logging.String(logging.FieldLine, r.Label()),
			logging.Int64("account_id", accountID),
			logging.String(logging.FieldImpact, "performance columns left empty"),
			logging.Error(err))
		return
	}
	perf := performance.Compute(stats, p.reference)
	r.Performance = &perf
}

func (p *PlayerResolver) fail(r *roster.Record, tag string, err error) {
	r.Invalidate(fmt.Sprintf("The gamer tag [%s] could not be found. (%s)", tag, failureDetail(err)))
	p.logger.Info("player not resolved",
		logging.String(logging.FieldLine, r.Label()),
		logging.String("gamer_tag", tag),
		logging.Error(err))
}

func failureDetail(err error) string {
	var apiErr *wgapi.APIError
	switch {
	case errors.Is(err, wgapi.ErrTagTooLong):
		return fmt.Sprintf("longer than %d characters", wgapi.MaxGamerTagLength)
	case errors.Is(err, wgapi.ErrNoMatch), errors.Is(err, fetcher.ErrNotFound):
		return "no exact match"
	case errors.As(err, &apiErr):
		return "rejected by the API: " + apiErr.Message
	case errors.Is(err, fetcher.ErrRetriesExhausted):
		return "lookup failed after retries"
	default:
		return "lookup failed"
	}
}
