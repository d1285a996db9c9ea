package matchdata

import (
	"regexp"
	"strings"
)

var (
	labelSeparator = regexp.MustCompile(`(?i)\s+vs\s+`)
	labelSpace     = regexp.MustCompile(`\s+`)
)

// SplitLabel splits "Home vs Away" into its two team names. The separator is
// case-insensitive and must appear exactly once.
func SplitLabel(label string) (home, away string, ok bool) {
	parts := labelSeparator.Split(strings.TrimSpace(label), -1)
	if len(parts) != 2 {
		return "", "", false
	}
	home = strings.TrimSpace(parts[0])
	away = strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return "", "", false
	}

	return home, away, true
}

// FormatLabel is the inverse of SplitLabel.
func FormatLabel(home, away string) string {
	return home + " vs " + away
}

// LabelKey is the comparison form of a match label: lower-cased with
// collapsed whitespace and a canonical separator.
func LabelKey(label string) string {
	if home, away, ok := SplitLabel(label); ok {
		label = FormatLabel(home, away)
	}
	return strings.ToLower(labelSpace.ReplaceAllString(strings.TrimSpace(label), " "))
}
