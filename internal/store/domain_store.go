package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"domain-panel/internal/models"

	"gorm.io/gorm"
)

// DomainStore persists domain records, reminder settings and the
// notification log.
type DomainStore struct {
	db *gorm.DB
}

// NewDomainStore creates a store over db.
func NewDomainStore(db *gorm.DB) *DomainStore {
	return &DomainStore{db: db}
}

// ListAll returns every record, newest id first.
func (s *DomainStore) ListAll(ctx context.Context) ([]models.DomainRecord, error) {
	var records []models.DomainRecord
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the stored collection for records in one transaction.
// Ids are reassigned. Rows are inserted last-to-first so that ListAll
// returns them in the order given.
func (s *DomainStore) ReplaceAll(ctx context.Context, records []models.DomainRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.DomainRecord{}).Error; err != nil {
			return err
		}
		for i := len(records) - 1; i >= 0; i-- {
			r := records[i]
			r.ID = 0
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace domains: %w", err)
	}
	return nil
}

// DeleteByDomain removes every record with the given domain name.
func (s *DomainStore) DeleteByDomain(ctx context.Context, domain string) (int64, error) {
	res := s.db.WithContext(ctx).Where("domain = ?", domain).Delete(&models.DomainRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete domain %s: %w", domain, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByID removes the record with the given id.
func (s *DomainStore) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.DomainRecord{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete domain id %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// GetSettings returns the saved reminder settings, or nil when none were
// saved yet.
func (s *DomainStore) GetSettings(ctx context.Context) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := s.db.WithContext(ctx).First(&settings, models.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notification settings: %w", err)
	}
	return &settings, nil
}

// SetSettings upserts the singleton settings row.
func (s *DomainStore) SetSettings(ctx context.Context, settings models.NotificationSettings) error {
	settings.ID = models.SettingsRowID
	settings.NotificationMethod = settings.NotificationMethod.Normalize()
	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return fmt.Errorf("save notification settings: %w", err)
	}
	return nil
}

// EffectiveSettings returns the saved settings or the defaults.
func (s *DomainStore) EffectiveSettings(ctx context.Context) (models.NotificationSettings, error) {
	saved, err := s.GetSettings(ctx)
	if err != nil {
		return models.DefaultNotificationSettings(), err
	}
	if saved == nil {
		return models.DefaultNotificationSettings(), nil
	}
	return *saved, nil
}

// RecordNotification appends one entry to the notification log.
func (s *DomainStore) RecordNotification(ctx context.Context, n *models.Notification) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// WasNotified reports whether a reminder for domain expiring at expireDate
// was already delivered successfully.
func (s *DomainStore) WasNotified(ctx context.Context, domain, expireDate string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("domain = ? AND expire_date = ? AND status = ?", domain, expireDate, models.NotificationSuccess).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query notification log: %w", err)
	}
	return count > 0, nil
}

// Notifications returns the most recent log entries, newest first.
func (s *DomainStore) Notifications(ctx context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	q := s.db.WithContext(ctx).Order("sent_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}
