// Package prompt builds the text prompts sent to the generation service.
package prompt

import (
	"fmt"
	"strings"
)

// MaxSQLRows is the row cap requested from generated statements.
const MaxSQLRows = 100

func Classification(query, context string) string {
	return fmt.Sprintf(classificationTemplate, query, context)
}

// SQLRequest carries everything the SQL generator needs.
type SQLRequest struct {
	Query          string
	Context        string
	Tokens         []string
	NameCondition  string
	TimeFilterDays *int
}

func SQL(req SQLRequest) string {
	tokens := "[" + strings.Join(req.Tokens, ", ") + "]"

	var window string
	if req.TimeFilterDays != nil {
		window = fmt.Sprintf("\nTIME WINDOW: only rows from the last %d day(s) when the table has a date or timestamp column.\n", *req.TimeFilterDays)
	}

	var names string
	if req.NameCondition != "" {
		names = fmt.Sprintf("\nIf \"%s\" is a name lookup:\n    Use WHERE %s\n", req.Query, req.NameCondition)
	}

	return fmt.Sprintf(sqlTemplate, SchemaContext, req.Context, req.Query, tokens, window, MaxSQLRows, names)
}

func RelationalSummary(query string, total int, sampleJSON string) string {
	return fmt.Sprintf(relationalSummaryTemplate, query, total, sampleJSON)
}

func Suggestion(query, reason string) string {
	if strings.TrimSpace(reason) == "" {
		reason = "Unclear intent"
	}
	return fmt.Sprintf(suggestionTemplate, query, reason)
}

// StripFences removes markdown code fences, with or without a language tag.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	for _, tag := range []string{"```json", "```JSON", "```sql", "```SQL", "```"} {
		t = strings.ReplaceAll(t, tag, "")
	}
	return strings.TrimSpace(t)
}

// StripMarkdown removes emphasis markers and fences from generated prose.
func StripMarkdown(text string) string {
	t := strings.TrimSpace(text)
	for _, m := range []string{"**", "__", "```"} {
		t = strings.ReplaceAll(t, m, "")
	}
	return strings.TrimSpace(t)
}
