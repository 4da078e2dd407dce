package implementation

import (
	"context"

	"hcp-chatbot-be/internal/mapper"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/specification"
	"hcp-chatbot-be/pkg/rag/state"

	"gorm.io/gorm"
)

const comparisonColumns = `h1.version_number AS v1_version, h1.total_rows AS v1_total_rows,
	h1.changed_rows AS v1_changed_rows, h1.operation_type AS v1_operation,
	h2.version_number AS v2_version, h2.total_rows AS v2_total_rows,
	h2.changed_rows AS v2_changed_rows, h2.operation_type AS v2_operation,
	(h2.total_rows - h1.total_rows) AS row_difference,
	h2.reason, h2.triggered_by, h2.timestamp, h2.doc_id, h2.filename`

type VersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HistoryMapper
}

func NewVersionRepository(db *gorm.DB) contract.VersionRepository {
	return &VersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewHistoryMapper(),
	}
}

// Compare joins the two versions of the same table. Versions are used in the
// order given; the difference is always to minus from.
func (r *VersionRepositoryImpl) Compare(ctx context.Context, from, to int) ([]state.VersionComparison, error) {
	var rows []*model.VersionComparisonRow
	err := r.db.WithContext(ctx).
		Table("history_table AS h1").
		Select(comparisonColumns).
		Joins("JOIN history_table AS h2 ON h1.table_name = h2.table_name").
		Where("h1.version_number = ? AND h2.version_number = ?", from, to).
		Order("h2.timestamp DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]state.VersionComparison, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.ToComparison(row))
	}
	return out, nil
}

func (r *VersionRepositoryImpl) FindByNumber(ctx context.Context, version, limit int) ([]state.VersionRecord, error) {
	return r.FindAll(ctx,
		specification.ByVersionNumber{VersionNumber: version},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (r *VersionRepositoryImpl) Latest(ctx context.Context, limit int) ([]state.VersionRecord, error) {
	return r.FindAll(ctx, specification.NewestFirst{}, specification.Pagination{Limit: limit})
}

func (r *VersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]state.VersionRecord, error) {
	var models []*model.HistoryEntry
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToVersionRecords(models), nil
}
