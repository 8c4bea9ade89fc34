package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"rostercheck/internal/config"
	"rostercheck/internal/fetcher"
	"rostercheck/internal/resolve"
	"rostercheck/internal/wgapi"
)

// environment holds the transport shared by every client of one run: the
// response cache, the rate limiter, the HTTP client, and the fetch counters.
type environment struct {
	cfg      *config.Config
	logger   *slog.Logger
	cache    *fetcher.Cache
	limiter  *fetcher.Limiter
	http     *http.Client
	counters *fetcher.Counters
	sleep    fetcher.SleepFunc
}

func newEnvironment(cfg *config.Config, logger *slog.Logger, httpClient *http.Client, sleep fetcher.SleepFunc) (*environment, error) {
	cache, err := fetcher.NewCache(cfg.Cache.Dir, fetcher.CacheOptions{
		Prefix:        cfg.Cache.Prefix,
		WriteAttempts: cfg.Fetch.CacheWriteAttempts,
		WriteBase:     cfg.CacheWriteBase(),
		Logger:        logger,
		Sleep:         sleep,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}
	return &environment{
		cfg:      cfg,
		logger:   logger,
		cache:    cache,
		limiter:  fetcher.NewLimiter(cfg.MinInterval()),
		http:     httpClient,
		counters: &fetcher.Counters{},
		sleep:    sleep,
	}, nil
}

// newClient returns a client with its own fetcher over the shared transport.
func (e *environment) newClient() (*wgapi.Client, error) {
	f, err := fetcher.New(fetcher.Options{
		Cache:       e.cache,
		Limiter:     e.limiter,
		HTTPClient:  e.http,
		UserAgent:   e.cfg.API.UserAgent,
		MaxAttempts: e.cfg.Fetch.MaxAttempts,
		RetryBase:   e.cfg.RetryBase(),
		Logger:      e.logger,
		Sleep:       e.sleep,
		Counters:    e.counters,
	})
	if err != nil {
		return nil, err
	}
	return wgapi.New(wgapi.Options{
		Fetcher:           f,
		BaseURL:           e.cfg.API.BaseURL,
		ApplicationID:     e.cfg.API.ApplicationID,
		ExpectedValuesURL: e.cfg.Performance.ExpectedValuesURL,
		MaxAges: wgapi.MaxAges{
			Clan:       e.cfg.ClanMaxAge(),
			Account:    e.cfg.AccountMaxAge(),
			Membership: e.cfg.MembershipMaxAge(),
			TankStats:  e.cfg.TankStatsMaxAge(),
			Reference:  e.cfg.ReferenceMaxAge(),
		},
		Logger: e.logger,
	})
}

// newClientPool builds every client up front so construction errors surface
// before the player pass starts.
func (e *environment) newClientPool(size int) (*fetcher.Pool[resolve.PlayerLookup], error) {
	if size < 1 {
		size = 1
	}
	clients := make([]resolve.PlayerLookup, 0, size)
	for range size {
		c, err := e.newClient()
		if err != nil {
			return nil, fmt.Errorf("create api client: %w", err)
		}
		clients = append(clients, c)
	}
	next := 0
	return fetcher.NewPool(size, func() resolve.PlayerLookup {
		c := clients[next]
		next++
		return c
	}), nil
}

func (e *environment) fetchStats() FetchStats {
	return FetchStats{
		CacheHits:          e.counters.CacheHits.Load(),
		NetworkFetches:     e.counters.NetworkFetches.Load(),
		Retries:            e.counters.Retries.Load(),
		NotFound:           e.counters.NotFound.Load(),
		Exhausted:          e.counters.Exhausted.Load(),
		CacheWriteFailures: e.counters.CacheWriteFailures.Load(),
	}
}
