package services

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"domain-panel/internal/config"
	"domain-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/webdav"
)

func newWebDAV(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(&webdav.Handler{
		FileSystem: webdav.NewMemFS(),
		LockSystem: webdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)
	return srv
}

func newBackup(url string) *BackupService {
	return NewBackupService(&config.BackupConfig{
		URL:  url,
		User: "u",
		Path: "domain/domains-backup.json",
	}, 5*time.Second, nil)
}

func TestBackupRoundTrip(t *testing.T) {
	srv := newWebDAV(t)
	s := newBackup(srv.URL)
	ctx := context.Background()

	records := []models.DomainRecord{rec("a.com", "2026-10-20"), rec("b.com", "2027-01-01")}
	records[0].ID = 9
	url, err := s.Backup(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/domain/domains-backup.json", url)

	raw, err := s.GetFile(ctx, "domain/domains-backup.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  {\n    \"id\": 9,")

	got, err := s.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.com", got[0].Domain)
	assert.Equal(t, uint(9), got[0].ID.Uint())
	assert.Equal(t, "2027-01-01", got[1].ExpireDate)
}

func TestBackupRefusesEmptyCollection(t *testing.T) {
	s := newBackup(newWebDAV(t).URL)
	_, err := s.Backup(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNothingToBackup))
	assert.Equal(t, "没有可导出的域名数据", err.Error())
}

func TestFetchRequiresArray(t *testing.T) {
	s := newBackup(newWebDAV(t).URL)
	ctx := context.Background()
	require.NoError(t, s.PutFile(ctx, "domain/domains-backup.json", []byte(`{"domain":"a.com"}`)))

	_, err := s.Fetch(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WebDAV文件内容不是数组")
}

func TestFetchMissingFile(t *testing.T) {
	s := newBackup(newWebDAV(t).URL)
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WebDAV下载失败")
}

func TestBackupNotConfigured(t *testing.T) {
	s := newBackup("")
	assert.False(t, s.Configured())

	_, err := s.Backup(context.Background(), []models.DomainRecord{rec("a.com", "2027-01-01")})
	assert.True(t, IsNotConfigured(err))
	_, err = s.Fetch(context.Background())
	assert.True(t, IsNotConfigured(err))
}

func TestFileURLJoin(t *testing.T) {
	s := NewBackupService(&config.BackupConfig{URL: "https://dav.example.com/remote/", Path: "/domain/domains-backup.json"}, time.Second, nil)
	assert.Equal(t, "https://dav.example.com/remote/domain/domains-backup.json", s.FileURL())
}
