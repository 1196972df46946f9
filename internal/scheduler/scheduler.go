package scheduler

import (
	"context"
	"fmt"
	"time"

	"domain-panel/internal/logger"
	"domain-panel/internal/services"

	"github.com/robfig/cron/v3"
)

// ReminderRunner runs one expiry check
type ReminderRunner interface {
	CheckAllDomains(ctx context.Context, trigger string) (*services.CheckReport, error)
}

// BackupRunner uploads one backup and returns its location
type BackupRunner func(ctx context.Context) (string, error)

// Specs are the cron expressions of the jobs. An empty spec disables
// its job.
type Specs struct {
	Daily  string
	Weekly string
	Backup string
}

type job struct {
	name string
	spec string
	run  func()
}

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	monitor ReminderRunner
	backup  BackupRunner
	logger  logger.Logger
	timeout time.Duration
}

// NewScheduler creates a new scheduler. backup may be nil.
func NewScheduler(monitor ReminderRunner, backup BackupRunner, lg logger.Logger) *Scheduler {
	if lg == nil {
		lg = logger.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		monitor: monitor,
		backup:  backup,
		logger:  lg,
		timeout: 5 * time.Minute,
	}
}

// Start registers the jobs and starts the scheduler. Reminder jobs for
// both cadences are registered; the saved interval decides which one sends.
func (s *Scheduler) Start(specs Specs) error {
	jobs := []job{
		{services.TriggerDaily, specs.Daily, func() { s.RunReminder(services.TriggerDaily) }},
		{services.TriggerWeekly, specs.Weekly, func() { s.RunReminder(services.TriggerWeekly) }},
	}
	if s.backup != nil {
		jobs = append(jobs, job{"backup", specs.Backup, s.RunBackup})
	}

	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return fmt.Errorf("schedule %s job %q: %w", j.name, j.spec, err)
		}
		s.logger.Info("Scheduled job", logger.String("job", j.name), logger.String("spec", j.spec))
	}

	s.cron.Start()
	return nil
}

// RunReminder runs one reminder check for trigger
func (s *Scheduler) RunReminder(trigger string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.monitor.CheckAllDomains(ctx, trigger)
	if err != nil {
		s.logger.Error("Scheduled check failed", logger.String("trigger", trigger), logger.Error(err))
		return
	}
	s.logger.Info("Scheduled check completed",
		logger.String("trigger", trigger),
		logger.Int("expiring", len(report.Expiring)),
		logger.Int("notified", len(report.Notified)),
		logger.String("skipped", report.Skipped),
	)
}

// RunBackup uploads one backup
func (s *Scheduler) RunBackup() {
	if s.backup == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	url, err := s.backup(ctx)
	if err != nil {
		s.logger.Error("Scheduled backup failed", logger.Error(err))
		return
	}
	s.logger.Info("Scheduled backup completed", logger.String("url", url))
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
