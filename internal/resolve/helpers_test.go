package resolve_test

import (
	"testing"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/resolve"
	"rostercheck/internal/testsupport"
	"rostercheck/internal/wgapi"
)

func newClient(t *testing.T, api *testsupport.FakeAPI, cacheDir string) *wgapi.Client {
	t.Helper()
	cache, err := fetcher.NewCache(cacheDir, fetcher.CacheOptions{Prefix: "wcl"})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	f, err := fetcher.New(fetcher.Options{Cache: cache, MaxAttempts: 3, RetryBase: 0})
	if err != nil {
		t.Fatalf("fetcher.New: %v", err)
	}
	client, err := wgapi.New(wgapi.Options{
		Fetcher:           f,
		BaseURL:           api.BaseURL(),
		ApplicationID:     "test-app",
		ExpectedValuesURL: api.ExpectedValuesURL(),
	})
	if err != nil {
		t.Fatalf("wgapi.New: %v", err)
	}
	return client
}

func newClientPool(t *testing.T, api *testsupport.FakeAPI, size int) *fetcher.Pool[resolve.PlayerLookup] {
	t.Helper()
	dir := t.TempDir()
	return fetcher.NewPool(size, func() resolve.PlayerLookup {
		return newClient(t, api, dir)
	})
}
