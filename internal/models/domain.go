package models

import (
	"time"
)

// Status is the lifecycle state of a tracked domain.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusPending Status = "pending"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusPending:
		return true
	}
	return false
}

// Label returns the localized label shown in the panel and in CSV exports.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "正常"
	case StatusExpired:
		return "已过期"
	case StatusPending:
		return "待激活"
	}
	return string(s)
}

// DomainRecord represents a domain record in the database
type DomainRecord struct {
	ID           uint   `gorm:"primarykey" json:"id,omitempty"`
	Domain       string `gorm:"not null;index" json:"domain"`             // Domain name, not unique
	Status       Status `gorm:"size:16" json:"status"`                    // active/expired/pending
	Registrar    string `json:"registrar"`                                // Registrar
	RegisterDate string `gorm:"column:register_date" json:"registerDate"` // ISO 8601 date
	ExpireDate   string `gorm:"column:expire_date" json:"expireDate"`     // ISO 8601 date
	RenewURL     string `gorm:"column:renew_url" json:"renewUrl,omitempty"`
}

// TableName pins the table name used by the original deployment.
func (DomainRecord) TableName() string {
	return "domains"
}

// NewDraft returns the empty form a new record starts from.
func NewDraft() DomainRecord {
	return DomainRecord{Status: StatusActive}
}

// Setting represents a key/value configuration row
type Setting struct {
	Key   string `gorm:"primarykey" json:"key"`
	Value string `json:"value"`
}

// Notification records one delivery attempt through one method
type Notification struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Domain     string    `gorm:"index" json:"domain"`
	ExpireDate string    `json:"expireDate"`
	Method     string    `json:"method"`  // telegram/wechat/qq/email
	Content    string    `json:"content"` // Notification content
	Status     string    `json:"status"`  // success/failed
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sentAt"`
}

// Notification log status values.
const (
	NotificationSuccess = "success"
	NotificationFailed  = "failed"
)
