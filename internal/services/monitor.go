package services

import (
	"context"
	"fmt"
	"time"

	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"
	"domain-panel/internal/models"
	"domain-panel/internal/store"
	"domain-panel/internal/view"
)

// Reminder triggers.
const (
	TriggerDaily  = "daily"
	TriggerWeekly = "weekly"
	TriggerManual = "manual"
)

// MonitorStore is what the monitor reads from persistence
type MonitorStore interface {
	ListAll(ctx context.Context) ([]models.DomainRecord, error)
	EffectiveSettings(ctx context.Context) (models.NotificationSettings, error)
	WasNotified(ctx context.Context, domain, expireDate string) (bool, error)
}

// CheckReport describes one reminder run
type CheckReport struct {
	Trigger  string                `json:"trigger"`
	Checked  int                   `json:"checked"`
	Expiring []models.DomainRecord `json:"expiring"`
	Notified []models.DomainRecord `json:"notified"`
	Skipped  string                `json:"skipped,omitempty"`
	Results  []MethodResult        `json:"results,omitempty"`
}

// MonitorService sends scheduled reminders for stored records
type MonitorService struct {
	store         MonitorStore
	prefs         store.PreferenceStore
	notifyService *NotifyService
	metrics       *metrics.Metrics
	logger        logger.Logger
	now           func() time.Time
}

// NewMonitorService creates a new monitoring service
func NewMonitorService(st MonitorStore, prefs store.PreferenceStore, notifyService *NotifyService, m *metrics.Metrics, lg logger.Logger) *MonitorService {
	if lg == nil {
		lg = logger.NewNop()
	}
	return &MonitorService{
		store:         st,
		prefs:         prefs,
		notifyService: notifyService,
		metrics:       m,
		logger:        lg,
		now:           time.Now,
	}
}

// runsOn reports whether a reminder configured with interval fires on
// trigger. The once interval is checked daily and deduplicated.
func runsOn(interval models.Interval, trigger string) bool {
	switch trigger {
	case TriggerManual:
		return true
	case TriggerDaily:
		return interval == models.IntervalDaily || interval == models.IntervalOnce
	case TriggerWeekly:
		return interval == models.IntervalWeekly
	}
	return false
}

// CheckAllDomains loads every record and sends one reminder for those
// expiring within the configured window.
func (s *MonitorService) CheckAllDomains(ctx context.Context, trigger string) (*CheckReport, error) {
	report := &CheckReport{Trigger: trigger}

	settings, err := s.store.EffectiveSettings(ctx)
	if err != nil {
		return report, err
	}
	if !runsOn(settings.NotificationInterval, trigger) {
		report.Skipped = fmt.Sprintf("interval %s does not run on %s", settings.NotificationInterval, trigger)
		return report, nil
	}
	s.metrics.ObserveReminderRun(trigger)

	records, err := s.store.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to fetch domains: %w", err)
	}
	report.Checked = len(records)

	now := s.now()
	report.Expiring = view.ExpiringSoon(records, settings.WarningDays, now)
	s.logger.Info("Checked domains",
		logger.String("trigger", trigger),
		logger.Int("total", len(records)),
		logger.Int("expiring", len(report.Expiring)),
	)

	switch {
	case len(report.Expiring) == 0:
		report.Skipped = "no expiring domains"
		return report, nil
	case !settings.NotificationEnabled:
		report.Skipped = "notifications disabled"
		return report, nil
	case len(settings.NotificationMethod) == 0:
		report.Skipped = "no notification methods"
		return report, nil
	}

	if trigger != TriggerManual && s.prefs != nil {
		prefs, err := store.LoadPreferences(ctx, s.prefs)
		if err != nil {
			s.logger.Warn("Failed to load preferences", logger.Error(err))
		} else if prefs.DontRemindToday(now) {
			report.Skipped = "reminders muted for today"
			return report, nil
		}
	}

	pending := report.Expiring
	if settings.NotificationInterval == models.IntervalOnce {
		pending = pending[:0:0]
		for _, r := range report.Expiring {
			done, err := s.store.WasNotified(ctx, r.Domain, r.ExpireDate)
			if err != nil {
				return report, err
			}
			if !done {
				pending = append(pending, r)
			}
		}
		if len(pending) == 0 {
			report.Skipped = "already notified"
			return report, nil
		}
	}

	report.Notified = pending
	report.Results = s.notifyService.Notify(ctx, pending, settings.NotificationMethod)
	return report, nil
}
