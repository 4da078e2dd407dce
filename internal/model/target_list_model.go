package model

import "time"

// TargetHcp is one row of the HCP master list queried by generated SQL.
type TargetHcp struct {
	Id                  int64      `gorm:"primaryKey;autoIncrement"`
	HcpCode             *string    `gorm:"type:text;uniqueIndex"`
	FullName            string     `gorm:"type:text;not null"`
	Gender              *string    `gorm:"type:text"`
	Qualification       *string    `gorm:"type:text"`
	Specialty           *string    `gorm:"type:text;index"`
	Designation         *string    `gorm:"type:text"`
	Email               *string    `gorm:"type:text"`
	Phone               *string    `gorm:"type:text"`
	HospitalName        *string    `gorm:"type:text"`
	HospitalAddress     *string    `gorm:"type:text"`
	City                *string    `gorm:"type:text;index"`
	State               *string    `gorm:"type:text"`
	Pincode             *string    `gorm:"type:text"`
	ExperienceYears     *int       `gorm:"type:integer"`
	InfluenceScore      *float64   `gorm:"type:numeric(5,2)"`
	Category            *string    `gorm:"type:text"`
	TherapyArea         *string    `gorm:"type:text"`
	MonthlySales        *int       `gorm:"type:integer"`
	YearlySales         *int       `gorm:"type:integer"`
	LastInteractionDate *time.Time `gorm:"type:date"`
	CallFrequency       *int       `gorm:"type:integer"`
	Priority            bool       `gorm:"default:false"`
}

func (TargetHcp) TableName() string {
	return "target_list"
}
