package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// duplicateWindow is the trailing period in which a second submission from
// the same email is rejected
const duplicateWindow = 24 * time.Hour

// CreateLead inserts a captured lead. A submission with an email already
// seen inside the duplicate window fails with a conflict instead of
// creating a second row. Analytics side effects are best effort.
func (s *Storage) CreateLead(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	lead.Email = NormalizeEmail(lead.Email)

	var recent int64
	since := time.Now().Add(-duplicateWindow)
	err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("email = ? AND created_at > ?", lead.Email, since).
		Count(&recent).Error
	if err != nil {
		log.Printf("[storage] CreateLead duplicate check failed email=%s: %v", lead.Email, err)
		return nil, apperr.Database(err)
	}
	if recent > 0 {
		return nil, apperr.Conflict("An inquiry with this email was already submitted recently")
	}

	lead.ID = uuid.NewString()
	lead.Status = models.LeadStatusNew
	if lead.Source == "" {
		lead.Source = models.LeadSourceWebsite
	}

	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		log.Printf("[storage] CreateLead failed email=%s: %v", lead.Email, err)
		return nil, apperr.Database(err)
	}

	log.Printf("[storage] lead created id=%s source=%s", lead.ID, lead.Source)

	// Best-effort analytics: a failure here must not fail the submission
	s.RecordEvent(ctx, &models.AnalyticsEvent{
		Event:     models.EventLeadCreated,
		LeadID:    &lead.ID,
		ProjectID: lead.ProjectInterest,
		IPAddress: lead.IPAddress,
	})
	if lead.ProjectInterest != nil {
		if err := s.db.WithContext(ctx).Model(&models.Project{}).
			Where("id = ?", *lead.ProjectInterest).
			Update("inquiry_count", gorm.Expr("inquiry_count + 1")).Error; err != nil {
			log.Printf("[storage] inquiry count bump failed project=%s: %v", *lead.ProjectInterest, err)
		}
	}

	return lead, nil
}

// LeadFilters narrows the admin lead listing
type LeadFilters struct {
	Status   models.LeadStatus
	Source   models.LeadSource
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// LeadPage is a page of leads plus the total match count
type LeadPage struct {
	Items []models.Lead `json:"items"`
	Paginated
}

// GetLeads lists leads for operators, newest first. Lead data is sensitive
// and churns constantly, so it is never cached.
func (s *Storage) GetLeads(ctx context.Context, f LeadFilters) (*LeadPage, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset, 25)

	query := s.db.WithContext(ctx).Model(&models.Lead{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		query = query.Where("source = ?", f.Source)
	}
	if f.DateFrom != nil {
		query = query.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[storage] GetLeads count failed: %v", err)
		return nil, apperr.Database(err)
	}

	var items []models.Lead
	err := query.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		log.Printf("[storage] GetLeads failed: %v", err)
		return nil, apperr.Database(err)
	}

	return &LeadPage{Items: items, Paginated: Paginated{Limit: f.Limit, Offset: f.Offset, Total: total}}, nil
}

// GetLeadByID returns a single lead (admin)
func (s *Storage) GetLeadByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Lead not found")
	}
	if err != nil {
		log.Printf("[storage] GetLeadByID failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}
	return &lead, nil
}

// LeadPatch carries the operator-managed lead fields. Captured contact data
// stays immutable.
type LeadPatch struct {
	Status     *models.LeadStatus
	Notes      *string
	AssignedTo *string
	FollowUpAt *time.Time
}

// UpdateLead applies an operator update. A status change additionally
// appends a status_change activity row in the same transaction.
func (s *Storage) UpdateLead(ctx context.Context, id string, patch LeadPatch, actorID string) (*models.Lead, error) {
	lead, err := s.GetLeadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperr.Validation("Invalid lead status", apperr.FieldDetail{Field: "status", Message: "unknown status"})
	}

	updates := map[string]interface{}{}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.AssignedTo != nil {
		updates["assigned_to"] = *patch.AssignedTo
	}
	if patch.FollowUpAt != nil {
		updates["follow_up_at"] = *patch.FollowUpAt
	}
	statusChanged := patch.Status != nil && *patch.Status != lead.Status
	if statusChanged {
		updates["status"] = *patch.Status
	}

	if len(updates) == 0 {
		return lead, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Lead{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if statusChanged {
			activity := models.LeadActivity{
				LeadID:       id,
				ActivityType: models.ActivityStatusChange,
				Description:  fmt.Sprintf("status changed from %s to %s", lead.Status, *patch.Status),
			}
			if actorID != "" {
				activity.UserID = &actorID
			}
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[storage] UpdateLead failed id=%s: %v", id, err)
		return nil, apperr.Database(err)
	}

	return s.GetLeadByID(ctx, id)
}

// GetLeadActivities returns a lead's timeline, newest first
func (s *Storage) GetLeadActivities(ctx context.Context, leadID string) ([]models.LeadActivity, error) {
	if _, err := s.GetLeadByID(ctx, leadID); err != nil {
		return nil, err
	}

	var activities []models.LeadActivity
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		log.Printf("[storage] GetLeadActivities failed lead=%s: %v", leadID, err)
		return nil, apperr.Database(err)
	}
	return activities, nil
}

// NormalizeEmail lowercases and trims an email address. Dedupe and user
// uniqueness both run on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
