// Package performance derives aggregate battle figures from a player's
// per-vehicle statistics.
//
// The figures need two reference tables loaded once per run: the vehicle
// encyclopedia (tiers) and the WN8 expected values. Compute is pure and safe
// to call from the player workers once the Reference is loaded.
package performance
