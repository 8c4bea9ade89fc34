package roster

import (
	"fmt"
	"time"
)

// FieldCount is the number of input columns of a roster row.
const FieldCount = 9

// Player is the account resolved from a row's gamer tag.
type Player struct {
	ID int64
	// GamerTag carries the platform's canonical casing.
	GamerTag       string
	CurrentClanID  *int64
	CurrentClanTag string
	// Moment is when the account lookup was captured.
	Moment time.Time
}

// Performance holds aggregate battle figures of a player.
type Performance struct {
	Battles            int64
	WinRate            float64
	AvgTier            float64
	WN8                float64
	Tier10Battles      int64
	Tier10WinRate      float64
	Tier10WN8          float64
	Tier10DirectDamage float64
}

// Record is one roster row plus everything derived from it.
type Record struct {
	// OriginalLine is the 1-based line number in the input file.
	OriginalLine int

	TeamName        string
	GamerTag        string
	CheckedInAt     string
	TeamNameAgain   string
	ClanTag         string
	ClanURL         string
	PreferredServer string
	AlternateServer string
	ContactEmail    string

	// ClanTagFromURL is the upper-cased tag embedded in ClanURL, if any.
	ClanTagFromURL string
	// ContactAddress is the bare address parsed from ContactEmail.
	ContactAddress    string
	PreferredLocation ServerLocation
	AlternateLocation ServerLocation

	ClanID      *int64
	Player      *Player
	Performance *Performance

	Validity
}

// PlayerID returns the resolved player id, if any.
func (r *Record) PlayerID() (int64, bool) {
	if r.Player == nil {
		return 0, false
	}
	return r.Player.ID, true
}

// SetClanID stores the resolved clan id.
func (r *Record) SetClanID(id int64) {
	r.ClanID = &id
}

// Label identifies the record in log lines.
func (r *Record) Label() string {
	return fmt.Sprintf("line %04d", r.OriginalLine)
}

// CanonicalClanURL is the public clan page of tag.
func CanonicalClanURL(tag string) string {
	return "https://console.worldoftanks.com/en/clans/xbox/" + tag + "/"
}
