package models

import "time"

type Testimonial struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Location string `gorm:"type:varchar(100)" json:"location,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`

	// 1-5 stars
	Rating int `gorm:"not null" json:"rating"`

	ProjectID *string `gorm:"type:varchar(36);index" json:"project_id,omitempty"`

	Featured bool `gorm:"not null;default:false;index" json:"featured"`
	Approved bool `gorm:"not null;default:false;index" json:"approved"`
	Active   bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}

// PubliclyVisible reports whether the testimonial may appear on the site
func (t *Testimonial) PubliclyVisible() bool {
	return t.Approved && t.Active
}
