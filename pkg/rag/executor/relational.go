package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/rag/history"
	"hcp-chatbot-be/pkg/rag/prompt"
	"hcp-chatbot-be/pkg/rag/state"
)

var stopWords = map[string]struct{}{
	"the": {}, "in": {}, "of": {}, "for": {}, "and": {}, "to": {}, "show": {}, "all": {}, "me": {},
}

var selectPrefix = regexp.MustCompile(`(?i)^select\b`)

// Tokenize keeps tokens longer than two characters that are not stop-words.
func Tokenize(query string) []string {
	var tokens []string
	for _, t := range strings.Fields(query) {
		if utf8.RuneCountInString(t) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(t)]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// NameCondition builds the fuzzy name predicate when every token is
// alphabetic. Multiple tokens are always joined with AND.
func NameCondition(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !isAlpha(t) {
			return ""
		}
		parts = append(parts, fmt.Sprintf("full_name ILIKE '%%%s%%'", t))
	}
	return strings.Join(parts, " AND ")
}

// ValidateSelect accepts a single SELECT statement with an optional
// trailing semicolon.
func ValidateSelect(sql string) error {
	if !selectPrefix.MatchString(sql) {
		return state.Errorf(state.ErrStrategyExecution, "invalid SQL returned by generator")
	}
	body := strings.TrimRight(strings.TrimSpace(sql), "; \n\t")
	if strings.Contains(body, ";") {
		return state.Errorf(state.ErrStrategyExecution, "generated SQL contains more than one statement")
	}
	return nil
}

func (e *Executor) Relational(ctx context.Context, s state.AgentState) state.AgentState {
	return e.run("relational", s, func() (state.Result, error) {
		tokens := Tokenize(s.Query)
		req := prompt.SQLRequest{
			Query:          s.Query,
			Context:        history.ContextString(s.History),
			Tokens:         tokens,
			NameCondition:  NameCondition(tokens),
			TimeFilterDays: s.Decision.TimeFilterDays,
		}

		sql, err := e.generateSQL(ctx, prompt.SQL(req))
		if err != nil {
			return state.Result{}, err
		}
		if e.sql == nil {
			return state.Result{}, state.Errorf(state.ErrStrategyExecution, "relational executor unavailable")
		}

		e.logger.Debug(logModule, "Executing generated SQL", map[string]interface{}{"sql": sql})

		sctx, cancel := withTimeout(ctx, e.timeouts.SQL)
		defer cancel()
		rows := e.sql.Execute(sctx, sql)

		if len(rows) > prompt.MaxSQLRows {
			rows = rows[:prompt.MaxSQLRows]
		}
		return state.RelationalResult(rows), nil
	})
}

func (e *Executor) generateSQL(ctx context.Context, p string) (string, error) {
	if e.llmProvider == nil {
		return "", state.Errorf(state.ErrStrategyExecution, "text generation unavailable")
	}
	gctx, cancel := withTimeout(ctx, e.timeouts.LLM)
	defer cancel()

	raw, err := e.llmProvider.Generate(gctx, p, llm.WithTemperature(0.0))
	if err != nil {
		return "", state.Errorf(state.ErrStrategyExecution, "generate SQL: %v", err)
	}

	sql := prompt.StripFences(raw)
	if err := ValidateSelect(sql); err != nil {
		return "", err
	}
	return sql, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
