package consistency

import (
	"fmt"
	"log/slog"

	"rostercheck/internal/logging"
	"rostercheck/internal/roster"
)

// Check runs both consistency rules over records in order and returns how many
// records became invalid during the check. Records without a clan id or a
// player id are ignored.
func Check(records []*roster.Record, logger *slog.Logger) int {
	logger = logging.NewComponentLogger(logger, "consistency")

	var (
		clans   = make(map[int64]*Clan)
		order   []*Clan
		checked []*roster.Record
		touched = make(map[*roster.Record]bool)
	)

	for _, r := range records {
		playerID, ok := r.PlayerID()
		if !ok || r.ClanID == nil {
			continue
		}
		checked = append(checked, r)
		clan := clans[*r.ClanID]
		if clan == nil {
			clan = NewClan(*r.ClanID, r.ClanTag)
			clans[clan.ID] = clan
			order = append(order, clan)
		}
		if !clan.AddMember(playerID) {
			invalidate(r, touched, fmt.Sprintf("The player [%s] was already on the [%s] clan.", r.GamerTag, clan.Tag))
			logger.Info("duplicate clan member",
				logging.String(logging.FieldLine, r.Label()),
				logging.String("gamer_tag", r.GamerTag),
				logging.String("clan_tag", clan.Tag))
		}
	}

	for _, r := range checked {
		playerID, _ := r.PlayerID()
		for _, other := range order {
			if other.ID == *r.ClanID || !other.HasMember(playerID) {
				continue
			}
			invalidate(r, touched, fmt.Sprintf("The player [%s], member of the [%s] clan, also appears on the clan [%s].",
				r.GamerTag, r.ClanTag, other.Tag))
			logger.Info("player appears on several clans",
				logging.String(logging.FieldLine, r.Label()),
				logging.String("gamer_tag", r.GamerTag),
				logging.String("clan_tag", r.ClanTag),
				logging.String("other_clan_tag", other.Tag))
		}
	}

	logger.Debug("consistency check finished",
		logging.Int("rows", len(checked)),
		logging.Int("clans", len(order)),
		logging.Int("invalidated", len(touched)))
	return len(touched)
}

// invalidate counts a record once even when it gains several reasons. Records
// already invalid before the check are not counted.
func invalidate(r *roster.Record, touched map[*roster.Record]bool, reason string) {
	if r.IsValid() {
		touched[r] = true
	}
	r.Invalidate(reason)
}
