package model

import (
	"time"

	"gorm.io/gorm"
)

// EventModel 행사 데이터베이스 모델
type EventModel struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string           `gorm:"type:char(12);index" json:"user_id"`
	Title     string           `gorm:"size:250;not null" json:"title"`
	Location  string           `gorm:"size:250" json:"location"`
	Council   string           `gorm:"size:150;index" json:"council"`
	StartsAt  time.Time        `json:"starts_at"`
	EndsAt    time.Time        `json:"ends_at"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
	Rsvps     []EventRsvpModel `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"rsvps,omitempty"`
}

// TableName 테이블 이름 지정
func (EventModel) TableName() string {
	return "events"
}

// EventRsvpModel 행사 참석 응답 모델
type EventRsvpModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint      `gorm:"index;not null" json:"event_id"`
	UserID    string    `gorm:"type:char(12);index;not null" json:"user_id"`
	Response  string    `gorm:"size:50" json:"response"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 테이블 이름 지정
func (EventRsvpModel) TableName() string {
	return "event_rsvps"
}

// TrainingModel 훈련 이수 데이터베이스 모델
type TrainingModel struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string         `gorm:"type:char(12);index" json:"user_id"`
	Title       string         `gorm:"size:250;not null" json:"title"`
	Provider    string         `gorm:"size:250" json:"provider"`
	Council     string         `gorm:"size:150;index" json:"council"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 테이블 이름 지정
func (TrainingModel) TableName() string {
	return "trainings"
}

// AwardProgressModel 진급/수훈 진행 데이터베이스 모델
type AwardProgressModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string         `gorm:"type:char(12);index" json:"user_id"`
	Award     string         `gorm:"size:250;not null" json:"award"`
	Stage     string         `gorm:"size:100" json:"stage"`
	Council   string         `gorm:"size:150;index" json:"council"`
	Division  string         `gorm:"size:150" json:"division"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 테이블 이름 지정
func (AwardProgressModel) TableName() string {
	return "award_progresses"
}

// ActivityLogModel 활동 일지 데이터베이스 모델
type ActivityLogModel struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string         `gorm:"type:char(12);index" json:"user_id"`
	Activity    string         `gorm:"size:250;not null" json:"activity"`
	Description string         `gorm:"type:text" json:"description"`
	Council     string         `gorm:"size:150;index" json:"council"`
	OccurredAt  time.Time      `gorm:"index" json:"occurred_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 테이블 이름 지정
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}
