package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTurnLog struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId   string         `gorm:"type:varchar(100);not null;index"`
	Query       string         `gorm:"type:text;not null"`
	Route       string         `gorm:"type:varchar(30);not null;index"`
	Reasoning   string         `gorm:"type:text"`
	Confidence  float64        `gorm:"not null;default:0"`
	Decision    datatypes.JSON `gorm:"type:jsonb"`
	ResultCount int            `gorm:"not null;default:0"`
	Error       *string        `gorm:"type:text"`
	Response    string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"default:now();not null;index"`
}

func (ChatTurnLog) TableName() string {
	return "chat_turn_logs"
}
