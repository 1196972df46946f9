package models

import (
	"strings"
)

// Validation messages, one per rule.
const (
	MsgDomainRequired    = "域名不能为空"
	MsgStatusInvalid     = "状态必须是 active、expired 或 pending"
	MsgRegistrarRequired = "注册商不能为空"
	MsgRegisterDateBad   = "注册日期格式无效"
	MsgExpireDateBad     = "到期日期格式无效"
)

// ValidationResult is the outcome of checking one record.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidationError is returned when a record fails validation.
type ValidationError struct {
	Domain string
	Errors []string
}

func (e *ValidationError) Error() string {
	return "数据校验失败: " + strings.Join(e.Errors, "; ")
}

// RecordErrors lists the failed rules of one record in a batch.
type RecordErrors struct {
	Domain string   `json:"domain"`
	Errors []string `json:"errors"`
}

// Validate checks every field rule independently; errors accumulate.
// expireDate is not compared with registerDate.
func Validate(r DomainRecord) ValidationResult {
	errs := make([]string, 0)
	if strings.TrimSpace(r.Domain) == "" {
		errs = append(errs, MsgDomainRequired)
	}
	if !r.Status.Valid() {
		errs = append(errs, MsgStatusInvalid)
	}
	if strings.TrimSpace(r.Registrar) == "" {
		errs = append(errs, MsgRegistrarRequired)
	}
	if _, err := ParseDate(r.RegisterDate); err != nil {
		errs = append(errs, MsgRegisterDateBad)
	}
	if _, err := ParseDate(r.ExpireDate); err != nil {
		errs = append(errs, MsgExpireDateBad)
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateRecord returns a *ValidationError when r is invalid.
func ValidateRecord(r DomainRecord) error {
	res := Validate(r)
	if res.Valid {
		return nil
	}
	return &ValidationError{Domain: r.Domain, Errors: res.Errors}
}

// ValidateAll returns the failures of every invalid record, in order.
func ValidateAll(records []DomainRecord) []RecordErrors {
	var details []RecordErrors
	for _, r := range records {
		if res := Validate(r); !res.Valid {
			details = append(details, RecordErrors{Domain: r.Domain, Errors: res.Errors})
		}
	}
	return details
}
