package roster

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	clanTagPattern  = regexp.MustCompile(`^[A-Z0-9\-_]{2,5}$`)
	gamerTagPattern = regexp.MustCompile(`(?i)^[a-z0-9\-_\s]{1,25}$`)
	clanURLPattern  = regexp.MustCompile(`(?i)^(https?://)?console\.worldoftanks(\.com)?/[\w-]+/clans?/xbox/(?P<tag>[A-Z0-9\-_]{2,5})/?$`)
)

const clanTagCutset = "[]{}<> \t"

// Validate runs the field-level checks. Every field is checked, so a record
// collects one reason per problem. It also derives ClanTagFromURL,
// ContactAddress, and the server locations.
func (r *Record) Validate() {
	if err := validation.Validate(strings.TrimSpace(r.TeamName), validation.Required); err != nil {
		r.Invalidate("Team Name (field 1) is empty.")
	}

	if strings.TrimSpace(r.GamerTag) == "" {
		r.Invalidate("Gamer Tag (field 2) is empty.")
	} else if err := validation.Validate(r.GamerTag, validation.Match(gamerTagPattern)); err != nil {
		r.Invalidate(fmt.Sprintf("Gamer Tag (field 2, '%s') is invalid.", r.GamerTag))
	}

	r.ClanTag = strings.Trim(r.ClanTag, clanTagCutset)
	if r.ClanTag != "" {
		if err := validation.Validate(r.ClanTag, validation.Match(clanTagPattern)); err != nil {
			r.Invalidate(fmt.Sprintf("Clan Tag (field 5, '%s') is invalid.", r.ClanTag))
		}
	}

	if strings.TrimSpace(r.ClanURL) != "" {
		if m := clanURLPattern.FindStringSubmatch(r.ClanURL); m != nil {
			r.ClanTagFromURL = strings.ToUpper(m[clanURLPattern.SubexpIndex("tag")])
		} else {
			r.Invalidate(fmt.Sprintf("Clan URL (field 6, '%s') is invalid.", r.ClanURL))
		}
	}

	if strings.TrimSpace(r.PreferredServer) != "" {
		r.PreferredLocation = ParseServer(r.PreferredServer)
		if r.PreferredLocation == Unknown {
			r.Invalidate(fmt.Sprintf("Could not detect the preferred server ('%s') on field 7.", r.PreferredServer))
		}
	}
	if strings.TrimSpace(r.AlternateServer) != "" {
		r.AlternateLocation = ParseServer(r.AlternateServer)
		if r.AlternateLocation == Unknown {
			r.Invalidate(fmt.Sprintf("Could not detect the alternate server ('%s') on field 8.", r.AlternateServer))
		}
	}
	r.PreferredLocation, r.AlternateLocation = ResolveServerPreferences(r.PreferredLocation, r.AlternateLocation)

	if strings.TrimSpace(r.ContactEmail) != "" {
		address, err := parseAddress(r.ContactEmail)
		if err != nil {
			r.Invalidate(fmt.Sprintf("Team Contact E-Mail (field 9, '%s') is invalid.", r.ContactEmail))
		} else {
			r.ContactAddress = address
		}
	}
}

// parseAddress accepts "a@b.c" and "Name <a@b.c>" and returns the bare address.
func parseAddress(value string) (string, error) {
	parsed, err := mail.ParseAddress(value)
	if err != nil {
		return "", err
	}
	if err := validation.Validate(parsed.Address, is.Email); err != nil {
		return "", err
	}
	return parsed.Address, nil
}
