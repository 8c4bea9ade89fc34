package roster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CommentPrefix marks input lines that are skipped.
const CommentPrefix = "//"

// ErrTooFewFields reports a row with fewer than FieldCount columns.
var ErrTooFewFields = errors.New("roster: too few fields")

// DroppedLine is an input row that could not be parsed.
type DroppedLine struct {
	Line   int
	Fields int
}

// ParseResult is the outcome of reading a roster file.
type ParseResult struct {
	Records []*Record
	Dropped []DroppedLine
}

// ParseLine builds a Record from one data line. Fields are trimmed of blanks
// and surrounding quotes; the clan tag is upper-cased.
func ParseLine(line string, lineNumber int) (*Record, error) {
	f := SplitFields(line)
	if len(f) < FieldCount {
		return nil, fmt.Errorf("%w: line %d has %d, want at least %d", ErrTooFewFields, lineNumber, len(f), FieldCount)
	}
	return &Record{
		OriginalLine:    lineNumber,
		TeamName:        clean(f[0]),
		GamerTag:        clean(f[1]),
		CheckedInAt:     clean(f[2]),
		TeamNameAgain:   clean(f[3]),
		ClanTag:         strings.ToUpper(clean(f[4])),
		ClanURL:         clean(f[5]),
		PreferredServer: clean(f[6]),
		AlternateServer: clean(f[7]),
		ContactEmail:    clean(f[8]),
	}, nil
}

func clean(field string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(field), `"`))
}

// Parse reads a roster file. The first line is a header. Blank lines and
// comment lines are skipped but still count for line numbers. Rows with too
// few fields are reported in Dropped and left out of Records.
func Parse(r io.Reader) (ParseResult, error) {
	var result ParseResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber == 1 {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		record, err := ParseLine(line, lineNumber)
		if err != nil {
			result.Dropped = append(result.Dropped, DroppedLine{Line: lineNumber, Fields: len(SplitFields(line))})
			continue
		}
		result.Records = append(result.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read roster: %w", err)
	}
	return result, nil
}
