// Package division converts a tournament stage document into a
// ClanTag,Division,Group table.
//
// The stage document is the JSON export of a bracket site: an array whose
// first element names the stage and lists its groups and their teams. Team
// names are clan tags.
package division
