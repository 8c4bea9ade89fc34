package roster

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`"Team, Inc",b`, []string{"Team, Inc", "b"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"a,,", []string{"a", "", ""}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		got := SplitFields(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitFields(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLine(t *testing.T) {
	r, err := ParseLine(` Team A , player1 ,,, "[abc]" ,,East,, p1@example.com`, 7)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if r.OriginalLine != 7 || r.TeamName != "Team A" || r.GamerTag != "player1" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.ClanTag != "[ABC]" {
		t.Fatalf("expected upper-cased clan tag, got %q", r.ClanTag)
	}
	if r.ContactEmail != "p1@example.com" {
		t.Fatalf("unexpected contact %q", r.ContactEmail)
	}

	if _, err := ParseLine("a,b,c", 3); !errors.Is(err, ErrTooFewFields) {
		t.Fatalf("expected ErrTooFewFields, got %v", err)
	}
}

func TestParseSkipsHeaderBlankAndCommentLines(t *testing.T) {
	input := strings.Join([]string{
		"Team Name,Gamer Tag,Checked In At,Team Name Again,Clan Tag,Clan Url,Preferred Server,Alternate Server,Contact E-Mail",
		"Team A,player1,,,ABC,,East,,p1@example.com",
		"",
		"// a comment",
		"too,few",
		"Team B,player2,,,XYZ,,West,,p2@example.com",
	}, "\n")

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].OriginalLine != 2 || result.Records[1].OriginalLine != 6 {
		t.Fatalf("unexpected line numbers %d, %d", result.Records[0].OriginalLine, result.Records[1].OriginalLine)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].Line != 5 || result.Dropped[0].Fields != 2 {
		t.Fatalf("unexpected dropped lines %+v", result.Dropped)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	result, err := Parse(strings.NewReader("header only\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
}
