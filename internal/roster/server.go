package roster

import (
	"strings"

	"rostercheck/internal/textutil"
)

// ServerLocation is a team's server preference.
type ServerLocation int

const (
	NoPreference ServerLocation = iota
	Euro
	East
	West
	Unknown
)

func (s ServerLocation) String() string {
	switch s {
	case NoPreference:
		return "NoPreference"
	case Euro:
		return "Euro"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// defined reports whether s names an actual server.
func (s ServerLocation) defined() bool {
	return s != NoPreference && s != Unknown
}

type serverKeyword struct {
	fragment string
	location ServerLocation
}

// Order matters: "west" and "oeste" contain "est", so West is tried first.
var serverKeywords = []serverKeyword{
	{"west", West},
	{"oeste", West},
	{"east", East},
	{"leste", East},
	{"america", East},
	{"euro", Euro},
	{"eu", Euro},
	{"est", East},
	{"nae", East},
	{"восток", East},
	{"запад", West},
	{"naw", West},
	{"evropa", Euro},
}

// ParseServer maps free text in any of the supported languages to a server
// location. Blank text and "n/a" mean no preference; unrecognized text is
// Unknown.
func ParseServer(text string) ServerLocation {
	value := textutil.Keyword(text)
	switch value {
	case "", "n/a", "n.a.":
		return NoPreference
	}
	for _, kw := range serverKeywords {
		if strings.Contains(value, kw.fragment) {
			return kw.location
		}
	}
	return Unknown
}

// ResolveServerPreferences normalizes a preferred/alternate pair. When only
// the alternate is a real server the two are swapped, and Euro or West
// players without a usable alternate fall back to East.
func ResolveServerPreferences(preferred, alternate ServerLocation) (ServerLocation, ServerLocation) {
	if preferred == Unknown && alternate == Unknown {
		return preferred, alternate
	}
	if preferred.defined() && alternate.defined() {
		return preferred, alternate
	}
	if !preferred.defined() && alternate.defined() {
		preferred, alternate = alternate, preferred
	}
	if (preferred == Euro || preferred == West) && alternate == Unknown {
		alternate = East
	}
	return preferred, alternate
}
