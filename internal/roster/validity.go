package roster

import "strings"

// ReasonSeparator joins multiple invalidation reasons in the output file.
const ReasonSeparator = "; "

// Validity accumulates invalidation reasons. The zero value is valid.
// Reasons can only be appended, so a record never returns to valid.
type Validity struct {
	reasons []string
}

// UnspecifiedReason stands in for a blank invalidation reason.
const UnspecifiedReason = "The record is invalid."

// Invalidate records reason and marks the owner invalid. A blank reason is
// recorded as UnspecifiedReason.
func (v *Validity) Invalidate(reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = UnspecifiedReason
	}
	v.reasons = append(v.reasons, reason)
}

// IsValid reports whether no reason has been recorded.
func (v *Validity) IsValid() bool {
	return len(v.reasons) == 0
}

// Reasons returns a copy of the recorded reasons in insertion order.
func (v *Validity) Reasons() []string {
	return append([]string(nil), v.reasons...)
}

// Joined returns the reasons joined with ReasonSeparator.
func (v *Validity) Joined() string {
	return strings.Join(v.reasons, ReasonSeparator)
}
