package api

import (
	"net/http"

	"domain-panel/internal/codec"
	"domain-panel/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBackup uploads the stored collection to WebDAV
func (h *Handler) CreateBackup(c *gin.Context) {
	url, err := h.backup.BackupStored(c.Request.Context(), h.store)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// FetchBackup returns the backup file content as a JSON array
func (h *Handler) FetchBackup(c *gin.Context) {
	candidates, err := h.backup.Fetch(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// RestoreBackup replaces the collection with the backup file content
func (h *Handler) RestoreBackup(c *gin.Context) {
	ctx := c.Request.Context()
	candidates, err := h.backup.Fetch(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	records := codec.Records(candidates)
	if details := models.ValidateAll(records); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msgValidationFailed, "details": details})
		return
	}

	err = h.controller.Save(ctx, records)
	h.metrics.ObserveBackup("restore", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.controller.Load(ctx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(records)})
}
