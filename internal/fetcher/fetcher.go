package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"rostercheck/internal/logging"
)

const (
	defaultMaxAttempts = 10
	defaultRetryBase   = 2 * time.Second
	defaultUserAgent   = "rostercheck/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 32 << 20
)

// Options configures a Fetcher. Cache and Limiter are shared between the
// fetchers of one run; the remaining fields have usable zero values.
type Options struct {
	Cache       *Cache
	Limiter     *Limiter
	HTTPClient  *http.Client
	UserAgent   string
	MaxAttempts int
	RetryBase   time.Duration
	Logger      *slog.Logger
	Sleep       SleepFunc
	Now         func() time.Time
	Counters    *Counters
}

// Counters aggregates fetch outcomes across fetchers. All fields are safe for
// concurrent use.
type Counters struct {
	CacheHits          atomic.Int64
	NetworkFetches     atomic.Int64
	Retries            atomic.Int64
	NotFound           atomic.Int64
	Exhausted          atomic.Int64
	CacheWriteFailures atomic.Int64
}

// Fetcher retrieves documents through the cache, the shared limiter, and a
// retry loop.
type Fetcher struct {
	cache       *Cache
	limiter     *Limiter
	http        *http.Client
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	logger      *slog.Logger
	sleep       SleepFunc
	now         func() time.Time
	counters    *Counters
}

// New creates a Fetcher from the supplied options.
func New(opts Options) (*Fetcher, error) {
	if opts.Cache == nil {
		return nil, errors.New("fetcher: cache is required")
	}
	f := &Fetcher{
		cache:       opts.Cache,
		limiter:     opts.Limiter,
		http:        opts.HTTPClient,
		userAgent:   strings.TrimSpace(opts.UserAgent),
		maxAttempts: opts.MaxAttempts,
		retryBase:   opts.RetryBase,
		logger:      logging.NewComponentLogger(opts.Logger, "fetcher"),
		sleep:       opts.Sleep,
		now:         opts.Now,
		counters:    opts.Counters,
	}
	if f.http == nil {
		f.http = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.maxAttempts <= 0 {
		f.maxAttempts = defaultMaxAttempts
	}
	if f.retryBase < 0 {
		f.retryBase = defaultRetryBase
	}
	if f.sleep == nil {
		f.sleep = SleepWithContext
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.counters == nil {
		f.counters = &Counters{}
	}
	return f, nil
}

// Cache exposes the backing cache.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// Fetch returns the document for key. A cache entry no older than maxAge is
// returned without network access. Otherwise url is requested, waiting on the
// shared limiter first unless noWait is set; a noWait request neither waits
// nor consumes a limiter slot.
func (f *Fetcher) Fetch(ctx context.Context, key Key, url string, maxAge time.Duration, noWait bool) (Content, error) {
	content, ok, err := f.cache.Load(key, maxAge)
	if err != nil {
		f.logger.Debug("cache read failed; fetching from network",
			logging.String("key", key.String()),
			logging.Error(err))
	} else if ok {
		f.counters.CacheHits.Add(1)
		f.logger.Debug("served from cache", logging.String("key", key.String()))
		return content, nil
	}
	return f.fetchRemote(ctx, key, url, noWait)
}

// Invalidate drops the cached entry for key.
func (f *Fetcher) Invalidate(key Key) {
	if err := f.cache.Invalidate(key); err != nil {
		f.logger.Debug("cache invalidation failed",
			logging.String("key", key.String()),
			logging.Error(err))
	}
}

func (f *Fetcher) fetchRemote(ctx context.Context, key Key, url string, noWait bool) (Content, error) {
	if !noWait {
		if err := f.limiter.Wait(ctx); err != nil {
			return Content{}, err
		}
	}

	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		moment := f.now().UTC()
		started := time.Now()
		body, err := f.get(ctx, url)
		if err == nil {
			f.counters.NetworkFetches.Add(1)
			f.logger.Debug("fetched from network",
				logging.String("key", key.String()),
				logging.Duration("elapsed", time.Since(started)))
			if err := f.cache.Store(ctx, key, body); err != nil {
				f.counters.CacheWriteFailures.Add(1)
				logging.WarnWithContext(f.logger, "cache write failed", "cache_write_failed",
					logging.String("key", key.String()),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check free space and permissions of cache.dir"),
					logging.String(logging.FieldImpact, "the next run fetches this entry again"))
			}
			return Content{Body: body, CapturedAt: moment}, nil
		}
		if errors.Is(err, ErrNotFound) {
			f.counters.NotFound.Add(1)
			return Content{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Content{}, ctxErr
		}
		lastErr = err
		if attempt < f.maxAttempts-1 {
			f.counters.Retries.Add(1)
			wait := quadraticBackoff(attempt, f.retryBase)
			f.logger.Warn("request failed; retrying",
				logging.String("key", key.String()),
				logging.Int("attempt", attempt+1),
				logging.Duration("backoff", wait),
				logging.Error(err))
			if err := f.sleep(ctx, wait); err != nil {
				return Content{}, err
			}
		}
	}
	f.counters.Exhausted.Add(1)
	return Content{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, f.maxAttempts, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: redact(url)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read body: %w", err)
	}
	return body, nil
}

// redact hides the application id so it never reaches logs.
func redact(rawURL string) string {
	before, after, found := strings.Cut(rawURL, "application_id=")
	if !found {
		return rawURL
	}
	if _, rest, ok := strings.Cut(after, "&"); ok {
		return before + "application_id=***&" + rest
	}
	return before + "application_id=***"
}
