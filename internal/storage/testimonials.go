package storage

import (
	"context"
	"errors"
	"log"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestimonialFilters narrows testimonial listings. The public route always
// sets ApprovedOnly.
type TestimonialFilters struct {
	Featured     *bool  `json:"featured,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	ApprovedOnly bool   `json:"approved_only"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// TestimonialPage is a page of testimonials plus the total match count
type TestimonialPage struct {
	Items []models.Testimonial `json:"items"`
	Paginated
}

// GetTestimonials lists testimonials, featured first then newest
func (s *Storage) GetTestimonials(ctx context.Context, f TestimonialFilters) (*TestimonialPage, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset, 10)

	key := cacheKey("testimonials", "list", f)
	var page TestimonialPage
	if s.getCached(ctx, key, &page) {
		return &page, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Testimonial{})
	if f.ApprovedOnly {
		query = query.Where("approved = ? AND active = ?", true, true)
	}
	if f.Featured != nil {
		query = query.Where("featured = ?", *f.Featured)
	}
	if f.ProjectID != "" {
		query = query.Where("project_id = ?", f.ProjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[storage] GetTestimonials count failed: %v", err)
		return nil, apperr.Database(err)
	}

	var items []models.Testimonial
	err := query.
		Order("featured DESC, created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		log.Printf("[storage] GetTestimonials failed: %v", err)
		return nil, apperr.Database(err)
	}

	page = TestimonialPage{Items: items, Paginated: Paginated{Limit: f.Limit, Offset: f.Offset, Total: total}}
	s.setCached(ctx, key, &page)
	return &page, nil
}

// GetTestimonialByID returns a testimonial regardless of approval (admin)
func (s *Storage) GetTestimonialByID(ctx context.Context, id string) (*models.Testimonial, error) {
	var t models.Testimonial
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Testimonial not found")
	}
	if err != nil {
		log.Printf("[storage] GetTestimonialByID failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}
	return &t, nil
}

// CreateTestimonial inserts a testimonial. New entries start unapproved;
// they only become publicly visible after an admin approves them.
func (s *Storage) CreateTestimonial(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	if t.Rating < 1 || t.Rating > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5",
			apperr.FieldDetail{Field: "rating", Message: "must be between 1 and 5"})
	}
	if t.ProjectID != nil {
		if _, err := s.GetProjectByID(ctx, *t.ProjectID); err != nil {
			if apperr.IsNotFound(err) {
				return nil, apperr.Validation("Referenced project does not exist",
					apperr.FieldDetail{Field: "project_id", Message: "unknown project"})
			}
			return nil, err
		}
	}

	t.ID = uuid.NewString()
	t.Approved = false
	t.Active = true

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		log.Printf("[storage] CreateTestimonial failed: %v", err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "testimonials")
	log.Printf("[storage] testimonial created id=%s", t.ID)
	return t, nil
}

// TestimonialPatch carries the admin-updatable testimonial fields
type TestimonialPatch struct {
	Name     *string
	Location *string
	Content  *string
	Rating   *int
	Featured *bool
	Approved *bool
	Active   *bool
}

// UpdateTestimonial applies an admin moderation update
func (s *Storage) UpdateTestimonial(ctx context.Context, id string, patch TestimonialPatch) (*models.Testimonial, error) {
	if _, err := s.GetTestimonialByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return nil, apperr.Validation("Rating must be between 1 and 5",
			apperr.FieldDetail{Field: "rating", Message: "must be between 1 and 5"})
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Featured != nil {
		updates["featured"] = *patch.Featured
	}
	if patch.Approved != nil {
		updates["approved"] = *patch.Approved
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Testimonial{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			log.Printf("[storage] UpdateTestimonial failed id=%s: %v", id, err)
			return nil, apperr.Database(err)
		}
		s.invalidate(ctx, "testimonials")
	}

	return s.GetTestimonialByID(ctx, id)
}
