package textutil

import (
	"fmt"
	"strings"
)

// SanitizeCacheKey turns an arbitrary query into a file-name segment.
// ASCII letters, digits, '-' and '_' pass through unchanged; every other byte
// is written as '~' followed by two hex digits, so distinct queries never
// share a segment. Case is preserved. Returns "_" for empty input.
func SanitizeCacheKey(value string) string {
	if value == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "~%02X", c)
		}
	}
	return b.String()
}
