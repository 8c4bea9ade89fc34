package roster

import (
	"strings"
	"testing"
)

func validRecord() *Record {
	return &Record{
		OriginalLine: 2,
		TeamName:     "Team A",
		GamerTag:     "player 1",
		ClanTag:      "ABC12",
		ClanURL:      "https://console.worldoftanks.com/en/clans/xbox/abc12/",
		ContactEmail: "Captain <p1@example.com>",
	}
}

func TestValidateAcceptsWellFormedRecord(t *testing.T) {
	r := validRecord()
	r.Validate()
	if !r.IsValid() {
		t.Fatalf("expected valid record, reasons: %v", r.Reasons())
	}
	if r.ClanTagFromURL != "ABC12" {
		t.Fatalf("expected tag from url ABC12, got %q", r.ClanTagFromURL)
	}
	if r.ContactAddress != "p1@example.com" {
		t.Fatalf("expected bare address, got %q", r.ContactAddress)
	}
}

func TestValidateClanTagShape(t *testing.T) {
	tests := []struct {
		tag   string
		valid bool
	}{
		{"ABC12", true},
		{"A-_B", true},
		{"[XYZ]", true},
		{"A", false},
		{"ABCDEF", false},
		{"AB C", false},
		{"", true},
	}
	for _, tt := range tests {
		r := validRecord()
		r.ClanURL = ""
		r.ClanTag = tt.tag
		r.Validate()
		if r.IsValid() != tt.valid {
			t.Errorf("clan tag %q: valid=%v, want %v (reasons %v)", tt.tag, r.IsValid(), tt.valid, r.Reasons())
		}
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	r := &Record{
		OriginalLine:    4,
		GamerTag:        "bad!tag",
		ClanTag:         "TOOLONG",
		ClanURL:         "https://example.com/clan",
		PreferredServer: "Mars",
		AlternateServer: "Moon",
		ContactEmail:    "not-an-email",
	}
	r.Validate()
	reasons := r.Reasons()
	if len(reasons) != 7 {
		t.Fatalf("expected 7 reasons, got %d: %v", len(reasons), reasons)
	}
	want := []string{
		"Team Name (field 1) is empty.",
		"Gamer Tag (field 2, 'bad!tag') is invalid.",
		"Clan Tag (field 5, 'TOOLONG') is invalid.",
		"Clan URL (field 6, 'https://example.com/clan') is invalid.",
		"Could not detect the preferred server ('Mars') on field 7.",
		"Could not detect the alternate server ('Moon') on field 8.",
		"Team Contact E-Mail (field 9, 'not-an-email') is invalid.",
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Errorf("reason %d = %q, want %q", i, reasons[i], want[i])
		}
	}
}

func TestValidateNeverRestoresValidity(t *testing.T) {
	r := validRecord()
	r.Invalidate("earlier pass")
	r.Validate()
	if r.IsValid() {
		t.Fatal("a record must stay invalid once a reason was added")
	}
	if len(r.Reasons()) != 1 {
		t.Fatalf("expected only the earlier reason, got %v", r.Reasons())
	}
}

func TestValidateEmptyGamerTag(t *testing.T) {
	r := validRecord()
	r.GamerTag = ""
	r.Validate()
	if !strings.Contains(r.Joined(), "Gamer Tag (field 2) is empty.") {
		t.Fatalf("expected empty gamer tag reason, got %v", r.Reasons())
	}
}

func TestValidateServerPreferences(t *testing.T) {
	r := validRecord()
	r.PreferredServer = "n/a"
	r.AlternateServer = "Europe"
	r.Validate()
	if r.PreferredLocation != Euro || r.AlternateLocation != NoPreference {
		t.Fatalf("expected swapped preferences, got %v/%v", r.PreferredLocation, r.AlternateLocation)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "p1@example.com", want: "p1@example.com"},
		{in: "Captain <p1@example.com>", want: "p1@example.com"},
		{in: "not-an-email", wantErr: true},
		{in: "a@b@example.com", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAddress(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAddress(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseAddress(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
