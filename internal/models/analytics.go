package models

import "time"

// ProjectView is an append-only page-view fact. Rows are never updated;
// aggregates are computed from them and old rows are purged by retention.
type ProjectView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null;index" json:"project_id"`
	SessionID string    `gorm:"type:varchar(255)" json:"session_id,omitempty"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  string    `gorm:"type:text" json:"referrer,omitempty"`
	ViewedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"viewed_at"`
}

func (ProjectView) TableName() string {
	return "project_views"
}

// AnalyticsEvent is an append-only business event fact
type AnalyticsEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Event     string    `gorm:"type:varchar(100);not null;index" json:"event"`
	ProjectID *string   `gorm:"type:varchar(36);index" json:"project_id,omitempty"`
	LeadID    *string   `gorm:"type:varchar(36);index" json:"lead_id,omitempty"`
	Page      string    `gorm:"type:text" json:"page,omitempty"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

const (
	EventLeadCreated    = "lead_created"
	EventUserRegistered = "user_registered"
	EventProjectViewed  = "project_viewed"
)

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
