package specification

import "gorm.io/gorm"

// ByVersionNumber filters history_table rows to one version.
type ByVersionNumber struct {
	VersionNumber int
}

func (s ByVersionNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("version_number = ?", s.VersionNumber)
}

// NewestFirst orders the version log by its surrogate key, newest first.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("version_id DESC")
}
