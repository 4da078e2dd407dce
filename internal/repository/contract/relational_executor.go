package contract

import "context"

// RelationalExecutor runs one generated SELECT statement. Failures are
// logged by the implementation and surface as an empty slice.
type RelationalExecutor interface {
	Execute(ctx context.Context, sql string) []map[string]any
}
