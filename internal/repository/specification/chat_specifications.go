package specification

import "gorm.io/gorm"

// BySessionID filters turn logs to one chat session.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByRoute filters turn logs by the decided route.
type ByRoute struct {
	Route string
}

func (s ByRoute) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("route = ?", s.Route)
}
