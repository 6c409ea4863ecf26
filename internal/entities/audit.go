package entities

import "time"

// AuditCategory groups audit events by the area of the application that
// produced them.
type AuditCategory string

const (
	AuditCategoryAuth     AuditCategory = "auth"
	AuditCategoryDeletion AuditCategory = "deletion"
	AuditCategoryProfile  AuditCategory = "profile"
)

// AuditEvent is one entry of the audit trail. UserID is zero when a login
// names a user that does not exist.
type AuditEvent struct {
	ID         uint          `gorm:"primaryKey"`
	UserID     uint          `gorm:"index"`
	Category   AuditCategory `gorm:"index;size:20"`
	Action     string        `gorm:"index;size:64"`
	Summary    string        `gorm:"size:255"`
	TargetType string        `gorm:"size:32"`
	TargetID   *uint
	RemoteAddr string    `gorm:"size:45"`
	UserAgent  string    `gorm:"size:255"`
	Succeeded  bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index"`
}
