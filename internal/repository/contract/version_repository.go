package contract

import (
	"context"

	"hcp-chatbot-be/internal/repository/specification"
	"hcp-chatbot-be/pkg/rag/state"
)

// VersionRepository reads the version audit log (history_table).
type VersionRepository interface {
	Compare(ctx context.Context, from, to int) ([]state.VersionComparison, error)
	FindByNumber(ctx context.Context, version, limit int) ([]state.VersionRecord, error)
	Latest(ctx context.Context, limit int) ([]state.VersionRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]state.VersionRecord, error)
}
