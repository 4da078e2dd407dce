package intent

import (
	"regexp"
	"strings"
)

// Shortcut is a deterministic match that routes a query to the relational
// strategy without calling the classifier.
type Shortcut struct {
	Name   string
	Reason string
}

var rawSQLPattern = regexp.MustCompile(`^(select|count|delete|insert|update|with)\b`)

var historyPhrases = []string{
	"history",
	"history_table",
	"versions are there",
	"how many versions",
	"total versions",
}

// MatchShortcut checks the raw statement shortcut first, then the version
// history shortcut.
func MatchShortcut(query string) (Shortcut, bool) {
	lower := strings.ToLower(strings.TrimSpace(query))

	if rawSQLPattern.MatchString(lower) {
		return Shortcut{Name: "raw_sql", Reason: "Query starts with a SQL keyword"}, true
	}

	for _, phrase := range historyPhrases {
		if strings.Contains(lower, phrase) {
			return Shortcut{Name: "version_history", Reason: "Question about the version history table"}, true
		}
	}

	return Shortcut{}, false
}
