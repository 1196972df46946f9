package services

import "errors"

// NotConfiguredError is returned when a channel or backend lacks the
// settings it needs.
type NotConfiguredError struct {
	Service string
	Hint    string
}

func (e *NotConfiguredError) Error() string {
	msg := e.Service + "配置未设置"
	if e.Hint != "" {
		msg += "，" + e.Hint
	}
	return msg
}

// IsNotConfigured reports whether err is or wraps a *NotConfiguredError.
func IsNotConfigured(err error) bool {
	var nc *NotConfiguredError
	return errors.As(err, &nc)
}

// ErrNothingToBackup is returned when a backup is requested for an empty
// collection.
var ErrNothingToBackup = errors.New("没有可导出的域名数据")
