package models

import "time"

type BlogPost struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Excerpt string `gorm:"type:text" json:"excerpt,omitempty"`
	Content string `gorm:"type:text;not null" json:"content"`

	FeaturedImage string   `gorm:"type:text" json:"featured_image,omitempty"`
	Category      string   `gorm:"type:varchar(100);not null;index" json:"category"`
	Tags          []string `gorm:"serializer:json" json:"tags,omitempty"`

	// Minutes, derived from content length at write time
	ReadingTime int `gorm:"not null;default:0" json:"reading_time"`

	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`

	ViewCount int64 `gorm:"not null;default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
