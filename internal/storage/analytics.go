package storage

import (
	"context"
	"log"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"gorm.io/gorm"
)

// RecordProjectView appends a page-view fact and bumps the project's
// denormalized counter. The counter bump is best effort; the nightly
// reconcile corrects any drift from the fact table.
func (s *Storage) RecordProjectView(ctx context.Context, view *models.ProjectView) error {
	if _, err := s.GetProjectByID(ctx, view.ProjectID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(view).Error; err != nil {
		log.Printf("[storage] RecordProjectView failed project=%s: %v", view.ProjectID, err)
		return apperr.Database(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", view.ProjectID).
		Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		log.Printf("[storage] view count bump failed project=%s: %v", view.ProjectID, err)
	}

	s.RecordEvent(ctx, &models.AnalyticsEvent{
		Event:     models.EventProjectViewed,
		ProjectID: &view.ProjectID,
		IPAddress: view.IPAddress,
	})
	return nil
}

// RecordEvent appends a business event. It is fire and forget: callers on
// hot paths must never fail because an analytics insert failed.
func (s *Storage) RecordEvent(ctx context.Context, event *models.AnalyticsEvent) {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		log.Printf("[storage] RecordEvent failed event=%s: %v", event.Event, err)
	}
}

// DashboardStats is the aggregate snapshot behind the admin dashboard
type DashboardStats struct {
	TotalProjects    int64 `json:"total_projects"`
	ActiveProjects   int64 `json:"active_projects"`
	FeaturedProjects int64 `json:"featured_projects"`

	TotalLeads     int64            `json:"total_leads"`
	NewLeads       int64            `json:"new_leads"`
	LeadsThisMonth int64            `json:"leads_this_month"`
	LeadsByStatus  map[string]int64 `json:"leads_by_status"`
	LeadsBySource  map[string]int64 `json:"leads_by_source"`

	TotalUsers     int64 `json:"total_users"`
	TotalViews     int64 `json:"total_views"`
	PublishedPosts int64 `json:"published_posts"`
}

type statusCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// GetDashboardStats aggregates counters across the tables. Never cached
// stale longer than the standard TTL; admins expect fresh-ish numbers.
func (s *Storage) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	key := cacheKey("analytics", "dashboard", nil)
	var cached DashboardStats
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	stats := &DashboardStats{
		LeadsByStatus: map[string]int64{},
		LeadsBySource: map[string]int64{},
	}

	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalProjects, db.Model(&models.Project{})},
		{&stats.ActiveProjects, db.Model(&models.Project{}).Where("active = ?", true)},
		{&stats.FeaturedProjects, db.Model(&models.Project{}).Where("active = ? AND featured = ?", true, true)},
		{&stats.TotalLeads, db.Model(&models.Lead{})},
		{&stats.NewLeads, db.Model(&models.Lead{}).Where("status = ?", models.LeadStatusNew)},
		{&stats.LeadsThisMonth, db.Model(&models.Lead{}).Where("created_at >= ?", startOfMonth(time.Now()))},
		{&stats.TotalUsers, db.Model(&models.User{})},
		{&stats.TotalViews, db.Model(&models.ProjectView{})},
		{&stats.PublishedPosts, db.Model(&models.BlogPost{}).Where("published = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			log.Printf("[storage] GetDashboardStats count failed: %v", err)
			return nil, apperr.Database(err)
		}
	}

	var byStatus []statusCount
	if err := db.Model(&models.Lead{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, apperr.Database(err)
	}
	for _, row := range byStatus {
		stats.LeadsByStatus[row.Key] = row.Count
	}

	var bySource []statusCount
	if err := db.Model(&models.Lead{}).
		Select("source AS key, COUNT(*) AS count").
		Group("source").
		Scan(&bySource).Error; err != nil {
		return nil, apperr.Database(err)
	}
	for _, row := range bySource {
		stats.LeadsBySource[row.Key] = row.Count
	}

	s.setCached(ctx, key, stats)
	return stats, nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// TrendPoint is one day's lead count
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetLeadTrend returns daily lead counts for the trailing N days, oldest
// first. Days with no leads are filled with zero so charts stay contiguous.
func (s *Storage) GetLeadTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	key := cacheKey("analytics", "trend", map[string]int{"days": days})
	var cached []TrendPoint
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	var leads []models.Lead
	err := s.db.WithContext(ctx).
		Select("created_at").
		Where("created_at >= ?", start).
		Find(&leads).Error
	if err != nil {
		log.Printf("[storage] GetLeadTrend failed: %v", err)
		return nil, apperr.Database(err)
	}

	// Bucket in Go rather than SQL so the date grouping does not depend on
	// database-specific date functions
	byDay := map[string]int64{}
	for _, lead := range leads {
		byDay[lead.CreatedAt.Format("2006-01-02")]++
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, TrendPoint{Date: day, Count: byDay[day]})
	}

	s.setCached(ctx, key, points)
	return points, nil
}

// ReconcileViewCounts recomputes each active project's view_count from the
// project_views fact table. Returns the number of projects corrected.
func (s *Storage) ReconcileViewCounts(ctx context.Context) (int, error) {
	projects, err := s.GetActiveProjects(ctx)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, project := range projects {
		var actual int64
		if err := s.db.WithContext(ctx).Model(&models.ProjectView{}).
			Where("project_id = ?", project.ID).
			Count(&actual).Error; err != nil {
			log.Printf("[storage] reconcile count failed project=%s: %v", project.ID, err)
			continue
		}
		if actual == project.ViewCount {
			continue
		}
		if err := s.db.WithContext(ctx).Model(&models.Project{}).
			Where("id = ?", project.ID).
			Update("view_count", actual).Error; err != nil {
			log.Printf("[storage] reconcile update failed project=%s: %v", project.ID, err)
			continue
		}
		corrected++
	}

	if corrected > 0 {
		s.invalidate(ctx, "projects")
		log.Printf("[storage] view counts reconciled corrected=%d", corrected)
	}
	return corrected, nil
}

// PurgeResult reports what a retention purge removed, or would remove
type PurgeResult struct {
	ProjectViews int64     `json:"project_views"`
	Events       int64     `json:"events"`
	Cutoff       time.Time `json:"cutoff"`
	DryRun       bool      `json:"dry_run"`
}

// PurgeOldAnalytics deletes project view and event rows older than the
// retention period. With dryRun set it only counts. Every real purge writes
// a delete_logs row per table for auditability.
func (s *Storage) PurgeOldAnalytics(ctx context.Context, retention time.Duration, dryRun bool) (*PurgeResult, error) {
	cutoff := time.Now().Add(-retention)
	result := &PurgeResult{Cutoff: cutoff, DryRun: dryRun}

	if err := s.db.WithContext(ctx).Model(&models.ProjectView{}).
		Where("viewed_at < ?", cutoff).
		Count(&result.ProjectViews).Error; err != nil {
		return nil, apperr.Database(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).
		Where("created_at < ?", cutoff).
		Count(&result.Events).Error; err != nil {
		return nil, apperr.Database(err)
	}

	if dryRun {
		log.Printf("[storage] retention dry run cutoff=%s views=%d events=%d",
			cutoff.Format(time.RFC3339), result.ProjectViews, result.Events)
		return result, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result.ProjectViews > 0 {
			if err := tx.Where("viewed_at < ?", cutoff).Delete(&models.ProjectView{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.DeleteLog{
				TableName_:   models.ProjectView{}.TableName(),
				RowCount:     result.ProjectViews,
				CutoffBefore: cutoff,
				Reason:       models.DeleteReasonRetention,
			}).Error; err != nil {
				return err
			}
		}
		if result.Events > 0 {
			if err := tx.Where("created_at < ?", cutoff).Delete(&models.AnalyticsEvent{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.DeleteLog{
				TableName_:   models.AnalyticsEvent{}.TableName(),
				RowCount:     result.Events,
				CutoffBefore: cutoff,
				Reason:       models.DeleteReasonRetention,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[storage] retention purge failed: %v", err)
		return nil, apperr.Database(err)
	}

	s.invalidate(ctx, "analytics")
	log.Printf("[storage] retention purge complete cutoff=%s views=%d events=%d",
		cutoff.Format(time.RFC3339), result.ProjectViews, result.Events)
	return result, nil
}

// GetDeleteLogs returns the purge audit trail, newest first
func (s *Storage) GetDeleteLogs(ctx context.Context, limit int) ([]models.DeleteLog, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	var logs []models.DeleteLog
	err := s.db.WithContext(ctx).
		Order("deleted_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		log.Printf("[storage] GetDeleteLogs failed: %v", err)
		return nil, apperr.Database(err)
	}
	return logs, nil
}
