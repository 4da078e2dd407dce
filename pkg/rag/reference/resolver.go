// Package reference extracts version numbers, version ranges, time windows
// and uploader names from free text, and carries an implicit version over
// from conversation history.
package reference

import (
	"regexp"
	"strconv"
	"strings"

	"hcp-chatbot-be/pkg/rag/state"
)

// Patterns are tried in order; the first match wins.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`version\s+(\d+)`),
	regexp.MustCompile(`ver\s+(\d+)`),
	regexp.MustCompile(`v\.\s+(\d+)`),
	regexp.MustCompile(`v\s+(\d+)`),
}

var (
	rangePattern = regexp.MustCompile(`(?:version|ver|v\.?)\s+(\d+)`)

	byPattern         = regexp.MustCompile(`(?i) by \s*(\S+)`)
	uploadedByPattern = regexp.MustCompile(`(?i)uploaded by\s*(\S+)`)
	possessivePattern = regexp.MustCompile(`(\S+)'s `)
	fromPattern       = regexp.MustCompile(`(?i) from \s*(\S+)`)
)

var rangeTriggers = []string{"compare", "between", " to "}

// Resolution is everything the resolver could extract for one turn.
type Resolution struct {
	// ExplicitVersion is the version named in the current query, 0 if none.
	ExplicitVersion int
	Range           *state.VersionRange
	// EffectiveVersion is ExplicitVersion, or a version carried over from
	// history when the query names neither a version nor a range.
	EffectiveVersion int
	Source           state.VersionSource
	Uploader         string
	TimeFilterDays   *int
}

func (r Resolution) HasEffectiveVersion() bool {
	return r.EffectiveVersion > 0
}

// Resolve runs every extractor against query and falls back to history for
// the version number.
func Resolve(query string, history []state.Turn) Resolution {
	res := Resolution{
		Range:          ParseVersionRange(query),
		TimeFilterDays: ParseTimeFilter(query),
	}
	if v, ok := ParseVersionNumber(query); ok {
		res.ExplicitVersion = v
		res.EffectiveVersion = v
		res.Source = state.SourceCurrentQuery
	}
	if name, ok := ParseUploader(query); ok {
		res.Uploader = name
	}

	if res.ExplicitVersion == 0 && res.Range == nil {
		if v, ok := VersionFromHistory(history); ok {
			res.EffectiveVersion = v
			res.Source = state.SourceHistory
		}
	}
	return res
}

func ParseVersionNumber(text string) (int, bool) {
	lower := strings.ToLower(text)
	for _, p := range versionPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return n, true
	}
	return 0, false
}

// ParseVersionRange returns the first two version references in the order
// they appear. The pair is deliberately not sorted.
func ParseVersionRange(text string) *state.VersionRange {
	lower := strings.ToLower(text)
	triggered := false
	for _, t := range rangeTriggers {
		if strings.Contains(lower, t) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil
	}

	matches := rangePattern.FindAllStringSubmatch(lower, -1)
	if len(matches) < 2 {
		return nil
	}
	from, err1 := strconv.Atoi(matches[0][1])
	to, err2 := strconv.Atoi(matches[1][1])
	if err1 != nil || err2 != nil {
		return nil
	}
	return &state.VersionRange{From: from, To: to}
}

func ParseTimeFilter(text string) *int {
	lower := strings.ToLower(text)
	days := func(n int) *int { return &n }

	switch {
	case strings.Contains(lower, "today"):
		return days(0)
	case strings.Contains(lower, "yesterday"):
		return days(1)
	case strings.Contains(lower, "last week"), strings.Contains(lower, "this week"):
		return days(7)
	case strings.Contains(lower, "last month"), strings.Contains(lower, "this month"):
		return days(30)
	}
	return nil
}

// ParseUploader applies the uploader rules in priority order and returns the
// name from the first one that matches.
func ParseUploader(text string) (string, bool) {
	for _, p := range []*regexp.Regexp{byPattern, uploadedByPattern, possessivePattern, fromPattern} {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimRight(m[1], "?.,!;:")
		if name == "" {
			continue
		}
		return name, true
	}
	return "", false
}

// VersionFromHistory scans history most recent first and returns the first
// version number found in a prior user query.
func VersionFromHistory(history []state.Turn) (int, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if !turn.IsUserTurn() || strings.TrimSpace(turn.Query) == "" {
			continue
		}
		if v, ok := ParseVersionNumber(turn.Query); ok {
			return v, true
		}
	}
	return 0, false
}
