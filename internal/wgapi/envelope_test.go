package wgapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"rostercheck/internal/fetcher"
	"rostercheck/internal/wgapi"
)

func TestErrorEnvelopeIsNotCached(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status":"error","error":{"field":"application_id","message":"INVALID_APPLICATION_ID","code":407,"value":"bad"}}`))
	}))
	defer srv.Close()

	cache, err := fetcher.NewCache(t.TempDir(), fetcher.CacheOptions{})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	f, err := fetcher.New(fetcher.Options{Cache: cache})
	if err != nil {
		t.Fatalf("fetcher.New: %v", err)
	}
	client, err := wgapi.New(wgapi.Options{Fetcher: f, BaseURL: srv.URL, ApplicationID: "bad"})
	if err != nil {
		t.Fatalf("wgapi.New: %v", err)
	}

	for range 2 {
		_, err := client.FindClan(context.Background(), "ABC")
		var apiErr *wgapi.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Code != 407 || apiErr.Message != "INVALID_APPLICATION_ID" || apiErr.Operation != wgapi.OpFindClan {
			t.Fatalf("unexpected api error %+v", apiErr)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("error payload must not be served from cache, got %d calls", calls.Load())
	}
}
