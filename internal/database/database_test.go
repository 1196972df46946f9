package database

import (
	"path/filepath"
	"testing"

	"domain-panel/internal/config"
	"domain-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBMemory(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Type: "sqlite", Path: MemoryPath})
	require.NoError(t, err)
	assert.Same(t, db, GetDB())

	require.NoError(t, db.Create(&models.DomainRecord{Domain: "a.com", Status: models.StatusActive}).Error)

	var n int64
	require.NoError(t, db.Model(&models.DomainRecord{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.True(t, db.Migrator().HasTable("domains"))
	assert.True(t, db.Migrator().HasTable(&models.NotificationSettings{}))
}

func TestInitDBFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "panel.db")
	_, err := InitDB(&config.DatabaseConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestInitDBUnsupported(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}
