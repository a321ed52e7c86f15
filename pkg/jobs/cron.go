package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedules of the maintenance jobs
const (
	SweepSchedule   = "@every 1m"
	CleanupSchedule = "@every 3m"
	MonitorSchedule = "@every 30s"
)

// WizardSweeper closes and drops idle signup wizards
type WizardSweeper interface {
	Sweep(now time.Time) int
}

// VisitorCleaner drops idle rate limiter buckets
type VisitorCleaner interface {
	Cleanup() int
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron    *cron.Cron
	sweeper WizardSweeper
	cleaner VisitorCleaner
	monitor *Monitor
	logger  *log.Logger
	now     func() time.Time
}

// NewCronManager creates a new cron manager. cleaner and monitor may be nil.
func NewCronManager(sweeper WizardSweeper, cleaner VisitorCleaner, monitor *Monitor, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:    cron.New(),
		sweeper: sweeper,
		cleaner: cleaner,
		monitor: monitor,
		logger:  logger,
		now:     time.Now,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	if _, err := cm.cron.AddFunc(SweepSchedule, func() { cm.RunSweep() }); err != nil {
		return err
	}

	if cm.cleaner != nil {
		if _, err := cm.cron.AddFunc(CleanupSchedule, func() { cm.RunCleanup() }); err != nil {
			return err
		}
	}

	if cm.monitor != nil {
		_, err := cm.cron.AddFunc(MonitorSchedule, func() {
			h := cm.monitor.Check(context.Background())
			if h.Status != StatusOK {
				cm.logger.Printf("⚠️ Dependencies degraded: database=%s redis=%s", h.Database, h.Redis)
			}
		})
		if err != nil {
			return err
		}
	}

	cm.logger.Printf("✅ Cron jobs configured successfully (%d jobs)", len(cm.cron.Entries()))
	return nil
}

// RunSweep drops wizard sessions idle past their TTL
func (cm *CronManager) RunSweep() int {
	removed := cm.sweeper.Sweep(cm.now())
	if removed > 0 {
		cm.logger.Printf("🧹 Swept %d idle signup wizards", removed)
	}
	return removed
}

// RunCleanup drops rate limiter buckets that have fully refilled
func (cm *CronManager) RunCleanup() int {
	if cm.cleaner == nil {
		return 0
	}
	return cm.cleaner.Cleanup()
}

// Entries returns the number of scheduled jobs
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("🚀 Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the cron scheduler and waits for running jobs
func (cm *CronManager) Stop() {
	cm.logger.Println("🛑 Stopping cron scheduler...")
	<-cm.cron.Stop().Done()
}
