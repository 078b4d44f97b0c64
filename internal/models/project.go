package models

import "time"

// Coordinates is a lat/lng pair stored as a JSON column
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Project struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Location
	Location    string       `gorm:"type:varchar(200);not null;index" json:"location"`
	State       string       `gorm:"type:varchar(100);index" json:"state,omitempty"`
	District    string       `gorm:"type:varchar(100)" json:"district,omitempty"`
	Coordinates *Coordinates `gorm:"serializer:json" json:"coordinates,omitempty"`

	// Commercials
	ProjectType     ProjectType `gorm:"type:varchar(50);not null;index" json:"project_type"`
	PricePerSqFt    float64     `gorm:"type:decimal(10,2);not null;index" json:"price_per_sq_ft"`
	TotalArea       *float64    `gorm:"type:decimal(10,2)" json:"total_area,omitempty"`
	AvailableArea   *float64    `gorm:"type:decimal(10,2)" json:"available_area,omitempty"`
	MinInvestment   *float64    `gorm:"type:decimal(12,2)" json:"min_investment,omitempty"`
	ExpectedReturns string      `gorm:"type:varchar(100)" json:"expected_returns,omitempty"`

	Features []string `gorm:"serializer:json" json:"features,omitempty"`
	Images   []string `gorm:"serializer:json" json:"images,omitempty"`

	// Visibility (active=false is a soft delete, rows are never removed)
	Featured bool `gorm:"not null;default:false;index" json:"featured"`
	Active   bool `gorm:"not null;default:true;index" json:"active"`

	// Denormalized counters, reconciled nightly from the fact tables
	ViewCount    int64 `gorm:"not null;default:0" json:"view_count"`
	InquiryCount int64 `gorm:"not null;default:0" json:"inquiry_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ProjectType is the farmland category of a project
type ProjectType string

const (
	ProjectTypeCoconut     ProjectType = "coconut"
	ProjectTypeSpice       ProjectType = "spice"
	ProjectTypeBackwater   ProjectType = "backwater"
	ProjectTypeHillStation ProjectType = "hill-station"
)

func (Project) TableName() string {
	return "projects"
}

// Valid reports whether t is a known project type
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeCoconut, ProjectTypeSpice, ProjectTypeBackwater, ProjectTypeHillStation:
		return true
	}
	return false
}

// ValidCoordinates checks the lat/lng ranges
func (c *Coordinates) ValidCoordinates() bool {
	if c == nil {
		return true
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
