package domain

import "time"

// AuditLog is append-only; there is no update or delete path.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Username  string    `gorm:"size:64" json:"username"`
	Action    string    `gorm:"size:64;index;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// All returns every model the service migrates on boot.
func All() []any {
	return []any{
		&User{}, &Project{}, &Scholarship{},
		&ImpactMetric{}, &CompletionRate{}, &AuditLog{},
	}
}
