package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"domain-panel/internal/codec"
	"domain-panel/internal/config"
	"domain-panel/internal/metrics"
	"domain-panel/internal/models"

	"github.com/studio-b12/gowebdav"
)

// BackupService uploads and downloads the collection on a WebDAV server.
type BackupService struct {
	config  *config.BackupConfig
	client  *gowebdav.Client
	metrics *metrics.Metrics
}

// NewBackupService creates a backup service. It reports *NotConfiguredError
// on use when no WebDAV URL is set.
func NewBackupService(cfg *config.BackupConfig, timeout time.Duration, m *metrics.Metrics) *BackupService {
	s := &BackupService{config: cfg, metrics: m}
	if cfg.URL != "" {
		s.client = gowebdav.NewClient(cfg.URL, cfg.User, cfg.Password)
		s.client.SetTimeout(timeout)
	}
	return s
}

// Configured reports whether a WebDAV URL is set.
func (s *BackupService) Configured() bool {
	return s.client != nil
}

// FileURL is the full URL of the backup file.
func (s *BackupService) FileURL() string {
	base := s.config.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimLeft(s.config.Path, "/")
}

func (s *BackupService) notConfigured() error {
	return &NotConfiguredError{Service: "WebDAV", Hint: "请配置WEBDAV_URL、WEBDAV_USER和WEBDAV_PASS"}
}

// PutFile uploads data to path, creating parent collections as needed.
func (s *BackupService) PutFile(ctx context.Context, path string, data []byte) error {
	if !s.Configured() {
		return s.notConfigured()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("WebDAV上传失败: %w", err)
	}
	return nil
}

// GetFile downloads path.
func (s *BackupService) GetFile(ctx context.Context, path string) ([]byte, error) {
	if !s.Configured() {
		return nil, s.notConfigured()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.client.Read(path)
	if err != nil {
		return nil, fmt.Errorf("WebDAV下载失败: %w", err)
	}
	return data, nil
}

// Backup writes records as a pretty JSON array to the backup file and
// returns its URL. An empty collection is refused with ErrNothingToBackup.
func (s *BackupService) Backup(ctx context.Context, records []models.DomainRecord) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToBackup
	}
	data, err := codec.ExportJSON(records)
	if err != nil {
		return "", err
	}
	err = s.PutFile(ctx, s.config.Path, data)
	s.metrics.ObserveBackup("upload", err)
	if err != nil {
		return "", err
	}
	return s.FileURL(), nil
}

// Fetch downloads the backup file. Its content must be a JSON array.
func (s *BackupService) Fetch(ctx context.Context) ([]codec.Candidate, error) {
	candidates, err := s.fetch(ctx)
	s.metrics.ObserveBackup("download", err)
	return candidates, err
}

func (s *BackupService) fetch(ctx context.Context) ([]codec.Candidate, error) {
	data, err := s.GetFile(ctx, s.config.Path)
	if err != nil {
		return nil, err
	}
	candidates, err := codec.ImportJSON(data)
	if err != nil {
		return nil, fmt.Errorf("WebDAV文件内容不是数组: %w", err)
	}
	return candidates, nil
}

// RecordLister lists the stored collection
type RecordLister interface {
	ListAll(ctx context.Context) ([]models.DomainRecord, error)
}

// BackupStored backs up the collection currently held by l.
func (s *BackupService) BackupStored(ctx context.Context, l RecordLister) (string, error) {
	records, err := l.ListAll(ctx)
	if err != nil {
		return "", err
	}
	return s.Backup(ctx, records)
}
