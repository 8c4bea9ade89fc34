package division

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"rostercheck/internal/fileutil"
	"rostercheck/internal/logging"
	"rostercheck/internal/roster"
)

// Header is the first line of the converted table.
const Header = "ClanTag,Division,Group"

// ErrEmptyDocument reports a stage document without stages.
var ErrEmptyDocument = errors.New("division: document has no stage")

// Team is one entry of a group.
type Team struct {
	Name string `json:"name"`
}

// Group is a set of teams playing each other.
type Group struct {
	Name  string `json:"name"`
	Teams []Team `json:"teams"`
}

// Stage is the first element of the document.
type Stage struct {
	Name   string  `json:"name"`
	Groups []Group `json:"groups"`
}

// Row is one converted line.
type Row struct {
	ClanTag  string
	Division string
	Group    string
}

// Parse decodes a stage document and returns its first stage.
func Parse(r io.Reader) (Stage, error) {
	var stages []Stage
	if err := json.NewDecoder(r).Decode(&stages); err != nil {
		return Stage{}, fmt.Errorf("decode stage document: %w", err)
	}
	if len(stages) == 0 {
		return Stage{}, ErrEmptyDocument
	}
	return stages[0], nil
}

// DivisionName maps a stage name to WEST, EAST, or EURO. Names without a
// known region are returned unchanged.
func DivisionName(stageName string) string {
	lower := strings.ToLower(stageName)
	switch {
	case strings.Contains(lower, "west"):
		return "WEST"
	case strings.Contains(lower, "east"):
		return "EAST"
	case strings.Contains(lower, "euro"):
		return "EURO"
	default:
		return stageName
	}
}

// Rows flattens the stage in document order.
func (s Stage) Rows() []Row {
	division := DivisionName(s.Name)
	var rows []Row
	for _, g := range s.Groups {
		for _, t := range g.Teams {
			rows = append(rows, Row{ClanTag: t.Name, Division: division, Group: g.Name})
		}
	}
	return rows
}

// Render returns the table content.
func Render(rows []Row) []byte {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(roster.EscapeField(r.ClanTag))
		b.WriteByte(',')
		b.WriteString(roster.EscapeField(r.Division))
		b.WriteByte(',')
		b.WriteString(roster.EscapeField(r.Group))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Summary describes a finished conversion.
type Summary struct {
	Stage      string
	Division   string
	Groups     int
	Teams      int
	OutputPath string
}

// ConvertFile reads the stage document at path and writes the table next to
// it with a .csv extension.
func ConvertFile(path string, logger *slog.Logger) (Summary, error) {
	logger = logging.NewComponentLogger(logger, "division")

	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open stage document: %w", err)
	}
	stage, err := Parse(f)
	f.Close()
	if err != nil {
		return Summary{}, err
	}

	logger.Info("stage loaded", logging.String("stage", stage.Name), logging.Int("groups", len(stage.Groups)))
	for _, g := range stage.Groups {
		logger.Debug("group found", logging.String("group", g.Name), logging.Int("teams", len(g.Teams)))
	}

	rows := stage.Rows()
	out := fileutil.ReplaceExt(path, ".csv")
	if err := fileutil.WriteFileAtomic(out, Render(rows), 0o644); err != nil {
		return Summary{}, fmt.Errorf("write division table: %w", err)
	}
	return Summary{
		Stage:      stage.Name,
		Division:   DivisionName(stage.Name),
		Groups:     len(stage.Groups),
		Teams:      len(rows),
		OutputPath: out,
	}, nil
}
