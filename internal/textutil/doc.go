// Package textutil provides small text helpers shared by the roster, cache,
// and API code: cache-key sanitizing, Unicode case-folded
// comparison, and diacritic stripping for free-text keyword matching.
package textutil
