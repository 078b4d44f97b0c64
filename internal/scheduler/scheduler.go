// Package scheduler runs the nightly maintenance job: view count
// reconciliation, search reindex, and analytics retention purge.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"farmland-portal/internal/config"
	"farmland-portal/internal/search"
	"farmland-portal/internal/storage"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron      *cron.Cron
	store     *storage.Storage
	search    *search.SearchClient
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a scheduler. searchClient may be nil when search is
// disabled; the reindex step is then skipped.
func NewScheduler(store *storage.Storage, searchClient *search.SearchClient, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		search: searchClient,
		config: cfg,
	}
}

// Start registers the nightly job and starts the cron loop
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.Enabled {
		log.Println("Scheduler: Daily maintenance is disabled in configuration")
		return nil
	}

	cronSpec := parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily maintenance job...")
		if err := s.runDailyMaintenance(); err != nil {
			log.Printf("Scheduler: Daily maintenance failed: %v", err)
		} else {
			log.Println("Scheduler: Daily maintenance completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Scheduler.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow immediately executes the maintenance job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting maintenance job...")
	return s.runDailyMaintenance()
}

// runDailyMaintenance executes the three maintenance steps in order. A
// failing step is logged but does not block the steps after it.
func (s *Scheduler) runDailyMaintenance() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var firstErr error

	corrected, err := s.store.ReconcileViewCounts(ctx)
	if err != nil {
		log.Printf("Scheduler: View count reconcile failed: %v", err)
		firstErr = err
	} else {
		log.Printf("Scheduler: View counts reconciled, %d corrected", corrected)
	}

	if s.search != nil {
		projects, err := s.store.GetActiveProjects(ctx)
		if err != nil {
			log.Printf("Scheduler: Reindex load failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		} else if err := s.search.Reindex(projects); err != nil {
			log.Printf("Scheduler: Reindex failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	retention := time.Duration(s.config.Scheduler.RetentionDays) * 24 * time.Hour
	result, err := s.store.PurgeOldAnalytics(ctx, retention, false)
	if err != nil {
		log.Printf("Scheduler: Retention purge failed: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		log.Printf("Scheduler: Retention purge removed %d views, %d events", result.ProjectViews, result.Events)
	}

	return firstErr
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:30" -> "30 2 * * *" (run at 2:30 AM every day)
func parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	log.Printf("Scheduler: Failed to parse time '%s', using default 02:30", timeStr)
	return "30 2 * * *"
}
