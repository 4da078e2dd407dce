package specification

import "gorm.io/gorm"

// ByDocIDs restricts chunks to the given documents. An empty list is a no-op.
type ByDocIDs struct {
	DocIDs []string
}

func (s ByDocIDs) Apply(db *gorm.DB) *gorm.DB {
	if len(s.DocIDs) == 0 {
		return db
	}
	return db.Where("doc_id IN ?", s.DocIDs)
}

// ByUploader matches the uploader name exactly, the same as the keyword
// match the qdrant store applies.
type ByUploader struct {
	Name string
}

func (s ByUploader) Apply(db *gorm.DB) *gorm.DB {
	if s.Name == "" {
		return db
	}
	return db.Where("uploader_name = ?", s.Name)
}
