// Package resolve turns roster clan tags and gamer tags into platform ids.
//
// ClanResolver runs sequentially and remembers tags it already resolved or
// failed to find during the run, falling back to the tag embedded in the
// clan URL when the typed tag is unknown. PlayerResolver fans out over a
// bounded errgroup; each worker checks a client out of a fixed-size pool so
// the pool size caps simultaneous outbound requests.
//
// Lookup failures never abort a pass. They become invalidation reasons on
// the affected row and every other row continues.
package resolve
