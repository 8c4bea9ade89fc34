package wgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
)

// Cache operation names. They become part of the cache file name.
const (
	OpFindClan          = "FindClan"
	OpAccountList       = "AccountList"
	OpClansAccountinfo  = "ClansAccountinfo"
	OpTanksStats        = "TanksStats"
	OpVehicles          = "EncyclopediaVehicles"
	OpWn8ExpectedValues = "Wn8ExpectedValues"
)

const (
	// DefaultBaseURL is the console realm of the game-statistics API.
	DefaultBaseURL = "https://api-xbox-console.worldoftanks.com/wotx"
	// MaxGamerTagLength is the longest gamer tag the platform accepts.
	MaxGamerTagLength = 15
)

// MaxAges holds the cache window of each operation.
type MaxAges struct {
	Clan       time.Duration
	Account    time.Duration
	Membership time.Duration
	TankStats  time.Duration
	Reference  time.Duration
}

// DefaultMaxAges returns the cache windows used when none are configured.
func DefaultMaxAges() MaxAges {
	return MaxAges{
		Clan:       24 * time.Hour,
		Account:    7 * 24 * time.Hour,
		Membership: 2 * time.Hour,
		TankStats:  6 * time.Hour,
		Reference:  7 * 24 * time.Hour,
	}
}

// Options configures a Client.
type Options struct {
	Fetcher           *fetcher.Fetcher
	BaseURL           string
	ApplicationID     string
	ExpectedValuesURL string
	MaxAges           MaxAges
	Logger            *slog.Logger
}

// Client issues typed API calls through a cached fetcher. A Client is not
// shared between goroutines; callers check clients out of a fetcher.Pool.
type Client struct {
	fetcher           *fetcher.Fetcher
	baseURL           *url.URL
	applicationID     string
	expectedValuesURL string
	maxAges           MaxAges
	logger            *slog.Logger
}

// New creates a Client from the supplied options.
func New(opts Options) (*Client, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("wgapi: fetcher is required")
	}
	appID := strings.TrimSpace(opts.ApplicationID)
	if appID == "" {
		return nil, errors.New("wgapi: application id is required")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("wgapi: parse base url: %w", err)
	}
	maxAges := opts.MaxAges
	defaults := DefaultMaxAges()
	if maxAges.Clan <= 0 {
		maxAges.Clan = defaults.Clan
	}
	if maxAges.Account <= 0 {
		maxAges.Account = defaults.Account
	}
	if maxAges.Membership <= 0 {
		maxAges.Membership = defaults.Membership
	}
	if maxAges.TankStats <= 0 {
		maxAges.TankStats = defaults.TankStats
	}
	if maxAges.Reference <= 0 {
		maxAges.Reference = defaults.Reference
	}
	return &Client{
		fetcher:           opts.Fetcher,
		baseURL:           baseURL,
		applicationID:     appID,
		expectedValuesURL: strings.TrimSpace(opts.ExpectedValuesURL),
		maxAges:           maxAges,
		logger:            logging.NewComponentLogger(opts.Logger, "wgapi"),
	}, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL.JoinPath(path)
	// The API redirects paths without the trailing slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("application_id", c.applicationID)
	u.RawQuery = params.Encode()
	return u.String()
}

// call fetches and decodes the standard envelope. An error envelope evicts the
// cache entry and is returned as *APIError.
func (c *Client) call(ctx context.Context, key fetcher.Key, rawURL string, maxAge time.Duration) (envelope, fetcher.Content, error) {
	content, err := c.fetcher.Fetch(ctx, key, rawURL, maxAge, false)
	if err != nil {
		return envelope{}, content, err
	}
	var env envelope
	if err := json.Unmarshal(content.Body, &env); err != nil {
		c.fetcher.Invalidate(key)
		return envelope{}, content, fmt.Errorf("wgapi: decode %s: %w", key.Operation, err)
	}
	if env.Status != "ok" {
		c.fetcher.Invalidate(key)
		apiErr := &APIError{Operation: key.Operation, Message: "status " + env.Status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Field = env.Error.Field
			apiErr.Message = env.Error.Message
			apiErr.Value = env.Error.Value
		}
		return envelope{}, content, apiErr
	}
	return env, content, nil
}
