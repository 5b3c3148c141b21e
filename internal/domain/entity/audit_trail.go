package entity

import "time"

// AuditTrail 감사 추적 엔티티. 생성 이후 수정/삭제되지 않는다.
type AuditTrail struct {
	ID        uint
	UserID    string
	Field     string
	OldValue  string
	NewValue  string
	ChangedBy string
	Remarks   string
	Details   map[string]interface{}
	CreatedAt time.Time
}

// 감사 항목 필드명
const (
	AuditFieldRegistration = "registration"
	AuditFieldRole         = "role"
	AuditFieldStatus       = "status"
	AuditFieldInvitation   = "invitation"
	AuditFieldProfile      = "profile"
	AuditFieldPassword     = "password"
	AuditFieldMfa          = "mfa"
	AuditFieldDeletion     = "deletion"
)
