package roster

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// MomentLayout formats Player.Moment in the output file.
const MomentLayout = "2006-01-02 15:04:05"

var baseColumns = []string{
	"Team Name", "Gamer Tag", "Checked In At", "Team Name Again", "Clan Tag", "Clan Url",
	"Preferred Server", "Alternate Server", "Contact E-Mail",
	"Original Line Number", "Is Valid", "Invalid Reasons", "Clan Id", "Player Id",
	"Current Clan Id", "Current Clan Tag", "Player Moment", "Preferred Server Code", "Alternate Server Code",
}

var performanceColumns = []string{
	"Battles", "WinRate", "AvgTier", "Wn8", "Tier10Battles", "Tier10WinRate", "Tier10Wn8", "Tier10DirectDamage",
}

// Header returns the output header line.
func Header(withPerformance bool) string {
	cols := baseColumns
	if withPerformance {
		cols = append(append([]string(nil), baseColumns...), performanceColumns...)
	}
	return strings.Join(cols, ",")
}

// Line renders the annotated output row. Performance columns are appended
// when withPerformance is set, left empty for records without figures.
func (r *Record) Line(withPerformance bool) string {
	contact := r.ContactAddress
	if contact == "" {
		contact = r.ContactEmail
	}
	fields := []string{
		r.TeamName, r.GamerTag, r.CheckedInAt, r.TeamNameAgain, r.ClanTag, r.ClanURL,
		r.PreferredServer, r.AlternateServer, contact,
		strconv.Itoa(r.OriginalLine),
		boolFlag(r.IsValid()),
		r.Joined(),
		optionalInt(r.ClanID),
	}
	if p := r.Player; p != nil {
		fields = append(fields,
			strconv.FormatInt(p.ID, 10),
			optionalInt(p.CurrentClanID),
			p.CurrentClanTag,
			p.Moment.UTC().Format(MomentLayout))
	} else {
		fields = append(fields, "", "", "", "")
	}
	fields = append(fields, r.PreferredLocation.String(), r.AlternateLocation.String())

	if withPerformance {
		if perf := r.Performance; perf != nil {
			fields = append(fields,
				humanize.Comma(perf.Battles),
				strconv.FormatFloat(perf.WinRate, 'f', 4, 64),
				strconv.FormatFloat(perf.AvgTier, 'f', 2, 64),
				humanize.Comma(roundInt(perf.WN8)),
				humanize.Comma(perf.Tier10Battles),
				strconv.FormatFloat(perf.Tier10WinRate, 'f', 4, 64),
				humanize.Comma(roundInt(perf.Tier10WN8)),
				humanize.Comma(roundInt(perf.Tier10DirectDamage)))
		} else {
			fields = append(fields, make([]string, len(performanceColumns))...)
		}
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(f))
	}
	return b.String()
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func optionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func roundInt(v float64) int64 {
	return int64(math.Round(v))
}
