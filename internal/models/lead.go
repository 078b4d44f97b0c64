package models

import "time"

type Lead struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone string `gorm:"type:varchar(20);not null" json:"phone"`

	ProjectInterest *string  `gorm:"type:varchar(36);index" json:"project_interest,omitempty"`
	Budget          *float64 `gorm:"type:decimal(12,2)" json:"budget,omitempty"`
	Purpose         string   `gorm:"type:varchar(100)" json:"purpose,omitempty"`
	Requirements    string   `gorm:"type:text" json:"requirements,omitempty"`

	Source LeadSource `gorm:"type:varchar(50);not null;default:'website';index" json:"source"`
	Status LeadStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`

	// Operator-managed fields; everything above is immutable after capture
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	AssignedTo *string    `gorm:"type:varchar(36)" json:"assigned_to,omitempty"`
	FollowUpAt *time.Time `json:"follow_up_at,omitempty"`

	IPAddress string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type LeadSource string

const (
	LeadSourceWebsite       LeadSource = "website"
	LeadSourceReferral      LeadSource = "referral"
	LeadSourceSocial        LeadSource = "social"
	LeadSourceAdvertisement LeadSource = "advertisement"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (Lead) TableName() string {
	return "leads"
}

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceReferral, LeadSourceSocial, LeadSourceAdvertisement:
		return true
	}
	return false
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// LeadActivity is an append-only timeline entry for a lead
type LeadActivity struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LeadID       string    `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	UserID       *string   `gorm:"type:varchar(36)" json:"user_id,omitempty"`
	ActivityType string    `gorm:"type:varchar(50);not null" json:"activity_type"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

const (
	ActivityStatusChange = "status_change"
	ActivityNote         = "note"
	ActivityAssignment   = "assignment"
)

func (LeadActivity) TableName() string {
	return "lead_activities"
}
