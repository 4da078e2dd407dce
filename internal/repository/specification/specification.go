package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// MaxPageSize bounds every paginated read.
const MaxPageSize = 100

// Specification narrows or orders a gorm query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Apply runs specs against db in order.
func Apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		db = spec.Apply(db)
	}
	return db
}

// OrderBy sorts on a single column. Field is interpolated, so callers pass
// column names, never user input.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination clamps Limit to (0, MaxPageSize]; a non-positive limit means
// MaxPageSize.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	limit := s.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	db = db.Limit(limit)
	if s.Offset > 0 {
		db = db.Offset(s.Offset)
	}
	return db
}
