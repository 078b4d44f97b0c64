package storage

import (
	"context"
	"errors"
	"log"
	"strings"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectFilters narrows the public project listing
type ProjectFilters struct {
	Type     models.ProjectType `json:"type,omitempty"`
	Featured *bool              `json:"featured,omitempty"`
	State    string             `json:"state,omitempty"`
	Location string             `json:"location,omitempty"`
	MinPrice *float64           `json:"min_price,omitempty"`
	MaxPrice *float64           `json:"max_price,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// ProjectPage is a page of projects plus the total match count
type ProjectPage struct {
	Items []models.Project `json:"items"`
	Paginated
}

// GetProjects lists active projects, filtered and paginated. Canonical
// order is featured first, then name; limit is clamped to 50.
func (s *Storage) GetProjects(ctx context.Context, f ProjectFilters) (*ProjectPage, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset, 12)

	key := cacheKey("projects", "list", f)
	var page ProjectPage
	if s.getCached(ctx, key, &page) {
		return &page, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Project{}).Where("active = ?", true)

	if f.Type != "" {
		query = query.Where("project_type = ?", f.Type)
	}
	if f.Featured != nil {
		query = query.Where("featured = ?", *f.Featured)
	}
	if f.State != "" {
		query = query.Where("state = ?", f.State)
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.MinPrice != nil {
		query = query.Where("price_per_sq_ft >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price_per_sq_ft <= ?", *f.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[storage] GetProjects count failed filters=%+v: %v", f, err)
		return nil, apperr.Database(err)
	}

	var items []models.Project
	err := query.
		Order("featured DESC, name ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		log.Printf("[storage] GetProjects failed filters=%+v: %v", f, err)
		return nil, apperr.Database(err)
	}

	page = ProjectPage{Items: items, Paginated: Paginated{Limit: f.Limit, Offset: f.Offset, Total: total}}
	s.setCached(ctx, key, &page)
	return &page, nil
}

// GetProjectBySlug returns a single active project by its exact slug
func (s *Storage) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	key := cacheKey("projects", "slug", slug)
	var cached models.Project
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	var project models.Project
	err := s.db.WithContext(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		log.Printf("[storage] GetProjectBySlug failed slug=%s: %v", slug, err)
		return nil, apperr.Database(err)
	}

	s.setCached(ctx, key, &project)
	return &project, nil
}

// GetProjectByID returns a project regardless of active flag (admin view)
func (s *Storage) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		log.Printf("[storage] GetProjectByID failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}
	return &project, nil
}

// CreateProject inserts a new project. Slugs are permanent once used, so a
// clash with any existing project, active or not, is a conflict.
func (s *Storage) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("slug = ?", project.Slug).
		Count(&count).Error; err != nil {
		log.Printf("[storage] CreateProject slug check failed slug=%s: %v", project.Slug, err)
		return nil, apperr.Database(err)
	}
	if count > 0 {
		return nil, apperr.Conflict("Project with this slug already exists")
	}

	project.ID = uuid.NewString()
	project.Active = true
	project.ViewCount = 0
	project.InquiryCount = 0

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		log.Printf("[storage] CreateProject failed slug=%s: %v", project.Slug, err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "projects")
	log.Printf("[storage] project created id=%s slug=%s", project.ID, project.Slug)
	return project, nil
}

// ProjectPatch carries the whitelisted updatable project fields. The slug
// is immutable after creation; published links depend on it.
type ProjectPatch struct {
	Name            *string             `json:"name,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Location        *string             `json:"location,omitempty"`
	State           *string             `json:"state,omitempty"`
	District        *string             `json:"district,omitempty"`
	ProjectType     *models.ProjectType `json:"project_type,omitempty"`
	PricePerSqFt    *float64            `json:"price_per_sq_ft,omitempty"`
	TotalArea       *float64            `json:"total_area,omitempty"`
	AvailableArea   *float64            `json:"available_area,omitempty"`
	MinInvestment   *float64            `json:"min_investment,omitempty"`
	ExpectedReturns *string             `json:"expected_returns,omitempty"`
	Coordinates     *models.Coordinates `json:"coordinates,omitempty"`
	Features        []string            `json:"features,omitempty"`
	Images          []string            `json:"images,omitempty"`
	Featured        *bool               `json:"featured,omitempty"`
	Active          *bool               `json:"active,omitempty"`
}

// UpdateProject applies a partial update and returns the fresh row
func (s *Storage) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.State != nil {
		updates["state"] = *patch.State
	}
	if patch.District != nil {
		updates["district"] = *patch.District
	}
	if patch.ProjectType != nil {
		updates["project_type"] = *patch.ProjectType
	}
	if patch.PricePerSqFt != nil {
		updates["price_per_sq_ft"] = *patch.PricePerSqFt
	}
	if patch.TotalArea != nil {
		updates["total_area"] = *patch.TotalArea
	}
	if patch.AvailableArea != nil {
		updates["available_area"] = *patch.AvailableArea
	}
	if patch.MinInvestment != nil {
		updates["min_investment"] = *patch.MinInvestment
	}
	if patch.ExpectedReturns != nil {
		updates["expected_returns"] = *patch.ExpectedReturns
	}
	if patch.Featured != nil {
		updates["featured"] = *patch.Featured
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}

	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Serialized columns go through Model updates, not the map
	if patch.Coordinates != nil {
		project.Coordinates = patch.Coordinates
	}
	if patch.Features != nil {
		project.Features = patch.Features
	}
	if patch.Images != nil {
		project.Images = patch.Images
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.Coordinates != nil || patch.Features != nil || patch.Images != nil {
			if err := tx.Model(project).Select("coordinates", "features", "images").Updates(project).Error; err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[storage] UpdateProject failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "projects")
	return s.GetProjectByID(ctx, id)
}

// DeleteProject soft-deletes a project by flipping active=false. Deleting an
// already-inactive project is a no-op success; a missing id is NotFound.
func (s *Storage) DeleteProject(ctx context.Context, id string) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if !project.Active {
		return nil
	}

	err = s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		log.Printf("[storage] DeleteProject failed id=%s: %v", id, err)
		return apperr.Database(err)
	}

	s.invalidate(ctx, "projects")
	log.Printf("[storage] project soft-deleted id=%s slug=%s", id, project.Slug)
	return nil
}

// GetActiveProjects returns every active project, used by the search
// reindex and the nightly reconcile
func (s *Storage) GetActiveProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("featured DESC, name ASC").
		Find(&projects).Error
	if err != nil {
		log.Printf("[storage] GetActiveProjects failed: %v", err)
		return nil, apperr.Database(err)
	}
	return projects, nil
}
