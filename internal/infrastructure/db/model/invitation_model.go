package model

import (
	"time"

	"gorm.io/gorm"
)

// InvitationModel 관리자 초대 데이터베이스 모델
type InvitationModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string         `gorm:"size:150;not null" json:"full_name"`
	Email     string         `gorm:"size:250;not null;uniqueIndex" json:"email"`
	Role      string         `gorm:"size:50;not null" json:"role"`
	Council   string         `gorm:"size:150;not null;default:'FCT Scout Council'" json:"council"`
	InvitedBy string         `gorm:"type:char(12);index" json:"invited_by"`
	Token     string         `gorm:"size:250;not null" json:"-"`
	Status    string         `gorm:"size:50;not null;default:'pending';index" json:"status"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 테이블 이름 지정
func (InvitationModel) TableName() string {
	return "invitations"
}
