package models

import "time"

// DeleteLog records rows physically removed by the analytics retention purge
type DeleteLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TableName_   string    `gorm:"type:varchar(50);not null;column:table_name" json:"table_name"`
	RowCount     int64     `gorm:"not null" json:"row_count"`
	CutoffBefore time.Time `gorm:"not null" json:"cutoff_before"`
	DryRun       bool      `gorm:"not null;default:false" json:"dry_run"`
	Reason       string    `gorm:"type:varchar(50);not null" json:"reason"`
	DeletedAt    time.Time `gorm:"not null;autoCreateTime;index" json:"deleted_at"`
}

func (DeleteLog) TableName() string {
	return "delete_logs"
}

const (
	DeleteReasonRetention = "retention_expired"
	DeleteReasonManual    = "manual_purge"
)
