// Package wgapi is a typed client for the console game-statistics JSON API.
//
// Every call goes through a fetcher.Fetcher, so responses are cached on disk
// with a per-operation max-age and network access is rate limited and retried.
// Responses carrying an error envelope are turned into *APIError values and
// evicted from the cache so a bad payload is never replayed.
package wgapi
