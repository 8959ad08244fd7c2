package audit

import "time"

// AuditLog rows are append-only; nothing in the codebase updates or deletes
// them after creation.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey"`
	EntryID   string    `gorm:"column:entry_id;not null"`
	UserID    *int64    `gorm:"column:user_id"`
	Action    string    `gorm:"column:action;not null"`
	Data      string    `gorm:"column:data"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
