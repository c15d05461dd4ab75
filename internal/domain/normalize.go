package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for first, last and group names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeInvitationCode trims whitespace and upper-cases a guest-entered code.
func NormalizeInvitationCode(s string) InvitationCode {
	return InvitationCode(strings.ToUpper(strings.TrimSpace(s)))
}
