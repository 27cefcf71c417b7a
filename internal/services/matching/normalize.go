package matching

import (
	"regexp"
	"strings"
)

var roomSuffixRe = regexp.MustCompile(`(?:\s*R\d+)+$`)

// NormalizeConfirmation keeps only the digits of an OTA confirmation number.
// Returns "" when there are none.
func NormalizeConfirmation(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeThirdParty strips the per-room "R<n>" suffix the PMS appends to a
// shared group order id. Stacked suffixes are stripped together so the
// result is stable under re-application.
func NormalizeThirdParty(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(roomSuffixRe.ReplaceAllString(s, ""))
}

func NormalizeKey(raw string) string {
	return strings.TrimSpace(raw)
}
