// Package fetcher retrieves remote JSON documents through a disk cache.
//
// A Fetcher first consults its Cache: an entry whose file modification time is
// within the caller's max-age is served without touching the network. Misses go
// through a shared Limiter that spaces requests across every fetcher of a run,
// then through a retry loop with quadratic backoff. HTTP 404 is permanent and
// returned at once as ErrNotFound. Successful bodies are written back to the
// cache with their own retry loop; a cache write that keeps failing is logged
// and does not fail the fetch.
//
// Pool is a fixed-size checkout pool used to cap how many fetchers are in use
// at the same time.
package fetcher
