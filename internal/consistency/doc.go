// Package consistency cross-checks resolved roster rows for duplicate and
// conflicting clan membership.
//
// Rows that carry both a clan id and a player id are grouped into Clans. A
// player listed twice on the same clan invalidates the repeat row; a player
// listed on several clans invalidates every one of those rows, once per
// conflicting clan.
package consistency
