package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditTrailModel 감사 추적 데이터베이스 모델. 추가 전용이며 소프트 삭제도 두지 않는다.
type AuditTrailModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string         `gorm:"type:char(12);index" json:"user_id"`            // 대상 사용자 ID
	Field     string         `gorm:"size:100;not null;index" json:"field"`          // 변경된 필드
	OldValue  string         `gorm:"type:text" json:"old_value"`                    // 변경 전 값
	NewValue  string         `gorm:"type:text" json:"new_value"`                    // 변경 후 값
	ChangedBy string         `gorm:"size:150" json:"changed_by"`                    // 변경 주체 표기 이름
	Remarks   string         `gorm:"type:text" json:"remarks"`                      // 비고
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`           // 구조화된 상세 내용
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`        // 생성 시간
}

// TableName 테이블 이름 지정
func (AuditTrailModel) TableName() string {
	return "audit_trails"
}
