package roster

import "strings"

// SplitFields splits a comma-separated line. Commas inside double quotes do
// not split; the quotes themselves are dropped, and a doubled quote inside a
// quoted section yields one literal quote. Fields are returned untrimmed.
func SplitFields(line string) []string {
	fields := make([]string, 0, FieldCount)
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			b.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(fields, b.String())
}

// EscapeField prepares value for a comma-separated line: quotes are doubled
// and the value is wrapped in quotes when it holds a comma, a quote, or a
// line break.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
