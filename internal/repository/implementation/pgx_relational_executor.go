package implementation

import (
	"context"
	"fmt"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sqlLogModule = "SQL_EXECUTOR"

// PgxRelationalExecutor runs generated statements inside a read-only
// transaction so a statement that slipped past validation cannot write.
type PgxRelationalExecutor struct {
	pool   *pgxpool.Pool
	logger logger.ILogger
}

func NewPgxRelationalExecutor(pool *pgxpool.Pool, log logger.ILogger) contract.RelationalExecutor {
	return &PgxRelationalExecutor{pool: pool, logger: log}
}

func (e *PgxRelationalExecutor) Execute(ctx context.Context, sql string) []map[string]any {
	rows, err := e.query(ctx, sql)
	if err != nil {
		e.logger.Error(sqlLogModule, "Query failed", map[string]interface{}{"sql": sql, "error": err.Error()})
		return []map[string]any{}
	}
	e.logger.Debug(sqlLogModule, "Query returned rows", map[string]interface{}{"rows": len(rows)})
	return rows
}

func (e *PgxRelationalExecutor) query(ctx context.Context, sql string) ([]map[string]any, error) {
	tx, err := e.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read-only tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	for _, m := range maps {
		for k, v := range m {
			m[k] = NormalizeValue(v)
		}
	}
	return maps, nil
}

// NormalizeValue converts driver-specific values into plain Go values that
// render cleanly in text and JSON.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		if f, err := x.Float64Value(); err == nil && f.Valid {
			return f.Float64
		}
		return nil
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	default:
		return v
	}
}
