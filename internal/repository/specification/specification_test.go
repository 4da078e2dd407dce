package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type historyRow struct {
	VersionId     int64
	VersionNumber int
}

func (historyRow) TableName() string { return "history_table" }

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Skipf("gorm dry run unavailable: %v", err)
	}
	return db
}

func toSQL(db *gorm.DB, specs ...Specification) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []historyRow
		return Apply(tx, specs...).Find(&rows)
	})
}

func TestVersionSpecifications(t *testing.T) {
	db := dryRun(t)

	sql := toSQL(db, ByVersionNumber{VersionNumber: 4}, OrderBy{Field: "timestamp", Desc: true}, Pagination{Limit: 10})
	assert.Contains(t, sql, `WHERE version_number = 4`)
	assert.Contains(t, sql, `ORDER BY timestamp DESC`)
	assert.Contains(t, sql, `LIMIT 10`)

	sql = toSQL(db, NewestFirst{}, Pagination{Limit: 5})
	assert.Contains(t, sql, `ORDER BY version_id DESC`)
	assert.Contains(t, sql, `LIMIT 5`)
}

func TestChatSpecifications(t *testing.T) {
	db := dryRun(t)

	sql := toSQL(db, BySessionID{SessionID: "s1"}, ByRoute{Route: "invalid"})
	assert.Contains(t, sql, `session_id = 's1'`)
	assert.Contains(t, sql, `route = 'invalid'`)
}

func TestPagination_Clamps(t *testing.T) {
	db := dryRun(t)

	assert.Contains(t, toSQL(db, Pagination{}), `LIMIT 100`)
	assert.Contains(t, toSQL(db, Pagination{Limit: 5000}), `LIMIT 100`)
	assert.NotContains(t, toSQL(db, Pagination{Limit: 3}), `OFFSET`)
	assert.Contains(t, toSQL(db, Pagination{Limit: 3, Offset: 6}), `OFFSET 6`)
}

func TestApply_SkipsNil(t *testing.T) {
	db := dryRun(t)

	sql := toSQL(db, nil, ByVersionNumber{VersionNumber: 2})
	assert.Contains(t, sql, `version_number = 2`)
}

func TestDocumentSpecifications(t *testing.T) {
	db := dryRun(t)

	sql := toSQL(db, ByDocIDs{DocIDs: []string{"d1", "d2"}}, ByUploader{Name: "Dana%"})
	assert.Contains(t, sql, `doc_id IN ('d1','d2')`)
	assert.Contains(t, sql, `uploader_name = 'Dana%'`)
	assert.NotContains(t, sql, `LIKE`)

	assert.NotContains(t, toSQL(db, ByDocIDs{}, ByUploader{}), `WHERE`)
}
