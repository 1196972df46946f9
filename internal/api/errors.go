package api

import (
	"errors"
	"net/http"

	"domain-panel/internal/codec"
	"domain-panel/internal/models"
	"domain-panel/internal/panel"
	"domain-panel/internal/services"

	"github.com/gin-gonic/gin"
)

// Response messages.
const (
	msgBadPayload       = "数据格式错误"
	msgValidationFailed = "数据校验失败"
	msgMissingParam     = "缺少参数"
)

// statusFor maps an error to the HTTP status of its response.
func statusFor(err error) int {
	var (
		ve  *models.ValidationError
		fe  *codec.FormatError
		ee  *codec.EmptyFileError
		mce *codec.MissingColumnsError
		ie  *panel.IndexError
		te  *panel.TransportError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &fe), errors.As(err, &ee), errors.As(err, &mce):
		return http.StatusBadRequest
	case errors.As(err, &ie), errors.Is(err, services.ErrNothingToBackup):
		return http.StatusNotFound
	case services.IsNotConfigured(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &te):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server-side failures are also
// recorded on the context for the request log.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	body := gin.H{"success": false, "error": err.Error()}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body["details"] = ve.Errors
	}
	var mce *codec.MissingColumnsError
	if errors.As(err, &mce) {
		body["missing"] = mce.Columns
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
