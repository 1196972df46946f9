package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"domain-panel/internal/config"
	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"
	"domain-panel/internal/models"
	"domain-panel/internal/panel"
	"domain-panel/internal/services"
	"domain-panel/internal/store"
	"domain-panel/internal/view"

	"github.com/gin-gonic/gin"
)

// Handler holds service dependencies
type Handler struct {
	store      *store.DomainStore
	settings   store.PreferenceStore
	prefs      store.PreferenceStore
	controller *panel.Controller
	notify     *services.NotifyService
	backup     *services.BackupService
	whois      *services.WhoisService
	monitor    *services.MonitorService
	metrics    *metrics.Metrics
	logger     logger.Logger
	now        func() time.Time
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Store      *store.DomainStore
	Settings   store.PreferenceStore // settings rows for channel secrets
	Prefs      store.PreferenceStore
	Controller *panel.Controller
	Notify     *services.NotifyService
	Backup     *services.BackupService
	Whois      *services.WhoisService
	Monitor    *services.MonitorService
	Metrics    *metrics.Metrics
	Logger     logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(d Deps) *Handler {
	lg := d.Logger
	if lg == nil {
		lg = logger.NewNop()
	}
	return &Handler{
		store:      d.Store,
		settings:   d.Settings,
		prefs:      d.Prefs,
		controller: d.Controller,
		notify:     d.Notify,
		backup:     d.Backup,
		whois:      d.Whois,
		monitor:    d.Monitor,
		metrics:    d.Metrics,
		logger:     lg,
		now:        time.Now,
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Stored collection
		api.GET("/domains", h.ListDomains)
		api.POST("/domains", h.ReplaceDomains)
		api.DELETE("/domains", h.DeleteDomain)

		// Reminders
		api.POST("/notify", h.Notify)
		api.POST("/reminders/run", h.RunReminders)
		api.GET("/notifications", h.ListNotifications)

		// WebDAV backup
		api.POST("/backup", h.CreateBackup)
		api.GET("/backup", h.FetchBackup)
		api.POST("/backup/restore", h.RestoreBackup)

		// Settings and preferences
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
		api.PUT("/channels", h.UpdateChannels)
		api.GET("/preferences", h.GetPreferences)
		api.PUT("/preferences", h.UpdatePreferences)

		api.GET("/whois", h.Whois)

		// Panel
		p := api.Group("/panel")
		p.GET("", h.PanelView)
		p.POST("/reload", h.PanelReload)
		p.POST("/domains", h.PanelAdd)
		p.PUT("/domains/:index", h.PanelEdit)
		p.DELETE("/domains/:identifier", h.PanelDelete)
		p.POST("/batch/delete", h.PanelBatchDelete)
		p.POST("/batch/status", h.PanelBatchStatus)
		p.GET("/export", h.PanelExport)
		p.POST("/import", h.PanelImport)
	}
}

// ListDomains returns the stored collection in saved order
func (h *Handler) ListDomains(c *gin.Context) {
	domains, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "domains": domains})
}

// ReplaceDomains replaces the stored collection after validating every record
func (h *Handler) ReplaceDomains(c *gin.Context) {
	var req struct {
		Domains json.RawMessage `json:"domains"`
	}
	var domains []models.DomainRecord
	if err := c.ShouldBindJSON(&req); err != nil || !isJSONArray(req.Domains) ||
		json.Unmarshal(req.Domains, &domains) != nil {
		badRequest(c, msgBadPayload)
		return
	}

	if details := models.ValidateAll(domains); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msgValidationFailed, "details": details})
		return
	}

	if err := h.store.ReplaceAll(c.Request.Context(), domains); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		}
		return false
	}
	return false
}

// DeleteDomain removes rows by domain name or by id
func (h *Handler) DeleteDomain(c *gin.Context) {
	var req struct {
		Domain string `json:"domain"`
		ID     uint   `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Domain == "" && req.ID == 0) {
		badRequest(c, msgMissingParam)
		return
	}

	var (
		n   int64
		err error
	)
	if req.Domain != "" {
		n, err = h.store.DeleteByDomain(c.Request.Context(), req.Domain)
	} else {
		n, err = h.store.DeleteByID(c.Request.Context(), req.ID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// Notify sends one reminder for the posted records that expire soon
func (h *Handler) Notify(c *gin.Context) {
	var req struct {
		Domains []models.DomainRecord `json:"domains"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadPayload)
		return
	}

	ctx := c.Request.Context()
	settings, err := h.store.EffectiveSettings(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	methods := settings.NotificationMethod
	if len(methods) == 0 {
		methods = models.Methods{models.MethodTelegram}
	}

	expiring := view.ExpiringSoon(req.Domains, settings.WarningDays, h.now())
	if len(expiring) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "没有即将到期的域名"})
		return
	}

	results := h.notify.Notify(ctx, expiring, methods)
	if !services.AnySucceeded(results) {
		status := http.StatusBadGateway
		allUnconfigured := true
		for _, r := range results {
			if !services.IsNotConfigured(r.Err) {
				allUnconfigured = false
			}
		}
		if allUnconfigured {
			status = http.StatusServiceUnavailable
		}
		msg := "通知发送失败"
		if len(results) > 0 {
			msg = results[0].Error
		}
		c.JSON(status, gin.H{"success": false, "error": msg, "results": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("成功发送通知，%d个域名即将到期", len(expiring)),
		"results": results,
	})
}

// RunReminders runs the scheduled reminder check now
func (h *Handler) RunReminders(c *gin.Context) {
	report, err := h.monitor.CheckAllDomains(c.Request.Context(), services.TriggerManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// ListNotifications retrieves notification history
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.store.Notifications(c.Request.Context(), 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// GetSettings returns the reminder settings
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.store.EffectiveSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// UpdateSettings validates and saves the reminder settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var settings models.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, msgBadPayload)
		return
	}
	settings.NotificationMethod = settings.NotificationMethod.Normalize()
	if err := settings.Validate(); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.store.SetSettings(ctx, settings); err != nil {
		respondError(c, err)
		return
	}
	saved, err := h.store.EffectiveSettings(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": saved})
}

// UpdateChannels stores channel secrets as settings rows. They are applied
// over the configuration on the next start.
func (h *Handler) UpdateChannels(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		badRequest(c, msgBadPayload)
		return
	}
	for key := range values {
		if !config.IsSettingKey(key) {
			badRequest(c, "不支持的配置项: "+key)
			return
		}
	}
	if err := h.settings.Set(c.Request.Context(), values); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "配置已保存，重启后生效"})
}

// GetPreferences returns the client preferences
func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := store.LoadPreferences(c.Request.Context(), h.prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": prefs})
}

// UpdatePreferences saves the client preferences
func (h *Handler) UpdatePreferences(c *gin.Context) {
	prefs := models.DefaultPreferences()
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, msgBadPayload)
		return
	}
	defaults := models.DefaultPreferences()
	if prefs.CarouselInterval <= 0 {
		prefs.CarouselInterval = defaults.CarouselInterval
	}
	if prefs.WarningDays <= 0 {
		prefs.WarningDays = defaults.WarningDays
	}
	if prefs.DontRemindDate != "" {
		if _, err := time.Parse(models.DateLayout, prefs.DontRemindDate); err != nil {
			badRequest(c, "dontRemindDate 必须是 YYYY-MM-DD")
			return
		}
	}

	if err := store.SavePreferences(c.Request.Context(), h.prefs, prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": prefs})
}

// Whois returns a draft record for the add form
func (h *Handler) Whois(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		badRequest(c, msgMissingParam)
		return
	}
	draft, err := h.whois.Lookup(c.Request.Context(), domain)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "domain": draft})
}
