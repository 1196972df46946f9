package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"domain-panel/internal/codec"
	"domain-panel/internal/models"
	"domain-panel/internal/panel"
	"domain-panel/internal/view"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxImportSize   = 10 << 20
)

type viewRequest struct {
	view.Query
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// PanelView returns one page of the working collection with stats and the
// last reminder
func (h *Handler) PanelView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	settings, err := h.store.EffectiveSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	rows, total := h.controller.View(req.Query, req.Page, req.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"rows":      rows,
		"total":     total,
		"page":      req.Page,
		"pageSize":  req.PageSize,
		"pageCount": view.PageCount(total, req.PageSize),
		"stats":     view.Summarize(h.controller.Records(), settings.WarningDays, h.now()),
		"reminder":  h.controller.Expiring(),
		"state":     h.controller.State(),
	})
}

// PanelReload reloads the working collection from the store
func (h *Handler) PanelReload(c *gin.Context) {
	if err := h.controller.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

func (h *Handler) panelOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(h.controller.Records()),
		"reminder": h.controller.Expiring(),
	})
}

// PanelAdd appends one record
func (h *Handler) PanelAdd(c *gin.Context) {
	var r models.DomainRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, msgBadPayload)
		return
	}
	if err := h.controller.Add(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

// PanelEdit replaces the record at :index
func (h *Handler) PanelEdit(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid index")
		return
	}
	var r models.DomainRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, msgBadPayload)
		return
	}
	if err := h.controller.Edit(c.Request.Context(), index, r); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

// PanelDelete removes by domain name, or by id with ?by=id
func (h *Handler) PanelDelete(c *gin.Context) {
	id, err := panel.ParseIdentifier(c.Param("identifier"), c.Query("by") == "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.controller.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

// PanelBatchDelete removes the records at the given indices
func (h *Handler) PanelBatchDelete(c *gin.Context) {
	var req struct {
		Indices []int `json:"indices" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgMissingParam)
		return
	}
	if err := h.controller.BatchDelete(c.Request.Context(), req.Indices); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

// PanelBatchStatus sets one status on the records at the given indices
func (h *Handler) PanelBatchStatus(c *gin.Context) {
	var req struct {
		Indices []int         `json:"indices" binding:"required"`
		Status  models.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgMissingParam)
		return
	}
	if err := h.controller.BatchSetStatus(c.Request.Context(), req.Indices, req.Status); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}

// PanelExport downloads the working collection as ?format=json|csv|txt|xlsx
func (h *Handler) PanelExport(c *gin.Context) {
	f, err := codec.ParseFormat(c.DefaultQuery("format", codec.JSON.Name))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	data, err := codec.Export(f, h.controller.Records())
	if err != nil {
		respondError(c, err)
		return
	}
	name := f.Filename("domains-" + h.now().Format(models.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, f.MIME, data)
}

// PanelImport replaces the working collection with an uploaded file. The
// format comes from ?format or from the file extension.
func (h *Handler) PanelImport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, msgMissingParam)
		return
	}

	var f codec.Format
	if name := c.Query("format"); name != "" {
		f, err = codec.ParseFormat(name)
	} else {
		f, err = codec.FormatFromFilename(fh.Filename)
	}
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	tooLarge := &codec.FormatError{Format: f, Reason: fmt.Sprintf("文件大小超过 %d MiB", maxImportSize>>20)}
	if fh.Size > maxImportSize {
		respondError(c, tooLarge)
		return
	}

	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, maxImportSize+1)); err != nil {
		respondError(c, err)
		return
	}
	if buf.Len() > maxImportSize {
		respondError(c, tooLarge)
		return
	}

	candidates, err := codec.Import(f, buf.Bytes())
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.controller.Save(ctx, codec.Records(candidates)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.controller.Load(ctx); err != nil {
		respondError(c, err)
		return
	}
	h.panelOK(c)
}
