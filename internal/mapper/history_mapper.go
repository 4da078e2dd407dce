package mapper

import (
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/pkg/rag/state"
)

type HistoryMapper struct{}

func NewHistoryMapper() *HistoryMapper {
	return &HistoryMapper{}
}

func (m *HistoryMapper) ToVersionRecord(e *model.HistoryEntry) state.VersionRecord {
	if e == nil {
		return state.VersionRecord{}
	}
	r := state.VersionRecord{
		VersionID:     e.VersionId,
		VersionNumber: e.VersionNumber,
		TableName:     e.SourceTable,
		TotalRows:     e.TotalRows,
		ChangedRows:   e.ChangedRows,
		OperationType: e.OperationType,
		Reason:        deref(e.Reason),
		TriggeredBy:   deref(e.TriggeredBy),
		Timestamp:     e.Timestamp,
		DocID:         deref(e.DocId),
		Filename:      deref(e.Filename),
		FileType:      deref(e.FileType),
	}
	if e.NumChunks != nil {
		r.NumChunks = *e.NumChunks
	}
	return r
}

func (m *HistoryMapper) ToVersionRecords(entries []*model.HistoryEntry) []state.VersionRecord {
	out := make([]state.VersionRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, m.ToVersionRecord(e))
	}
	return out
}

func (m *HistoryMapper) ToComparison(r *model.VersionComparisonRow) state.VersionComparison {
	return state.VersionComparison{
		V1Version:     r.V1Version,
		V1TotalRows:   r.V1TotalRows,
		V1ChangedRows: r.V1ChangedRows,
		V1Operation:   r.V1Operation,
		V2Version:     r.V2Version,
		V2TotalRows:   r.V2TotalRows,
		V2ChangedRows: r.V2ChangedRows,
		V2Operation:   r.V2Operation,
		RowDifference: r.RowDifference,
		Reason:        deref(r.Reason),
		TriggeredBy:   deref(r.TriggeredBy),
		Timestamp:     r.Timestamp,
		DocID:         deref(r.DocId),
		Filename:      deref(r.Filename),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
