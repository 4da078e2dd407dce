package model

import "time"

// HistoryEntry is one row of the version audit log. The table is written by
// the ingestion side; the chatbot only reads it.
type HistoryEntry struct {
	VersionId     int64     `gorm:"column:version_id;primaryKey;autoIncrement"`
	VersionNumber int       `gorm:"column:version_number;not null;index"`
	SourceTable   string    `gorm:"column:table_name;type:varchar(100);not null"`
	TotalRows     int       `gorm:"column:total_rows;default:0"`
	ChangedRows   int       `gorm:"column:changed_rows;default:0"`
	OperationType string    `gorm:"column:operation_type;type:varchar(50)"`
	Reason        *string   `gorm:"column:reason;type:text"`
	TriggeredBy   *string   `gorm:"column:triggered_by;type:varchar(100)"`
	Timestamp     time.Time `gorm:"column:timestamp;not null;default:now();index"`
	DocId         *string   `gorm:"column:doc_id;type:varchar(100)"`
	Filename      *string   `gorm:"column:filename;type:varchar(255)"`
	FileType      *string   `gorm:"column:file_type;type:varchar(50)"`
	NumChunks     *int      `gorm:"column:num_chunks"`
}

func (HistoryEntry) TableName() string {
	return "history_table"
}

// VersionComparisonRow is the projection of a self-join of history_table.
type VersionComparisonRow struct {
	V1Version     int
	V1TotalRows   int
	V1ChangedRows int
	V1Operation   string
	V2Version     int
	V2TotalRows   int
	V2ChangedRows int
	V2Operation   string
	RowDifference int
	Reason        *string
	TriggeredBy   *string
	Timestamp     time.Time
	DocId         *string
	Filename      *string
}
