package entity

import "time"

// Event 행사 엔티티. RSVP는 별도 조인 행으로 관리한다.
type Event struct {
	ID        uint
	UserID    string
	Title     string
	Location  string
	Council   string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}

// EventRsvp 행사 참석 응답
type EventRsvp struct {
	ID        uint
	EventID   uint
	UserID    string
	Response  string
	CreatedAt time.Time
}

// Training 훈련 이수 기록
type Training struct {
	ID          uint
	UserID      string
	Title       string
	Provider    string
	Council     string
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// AwardProgress 진급/수훈 진행 기록
type AwardProgress struct {
	ID        uint
	UserID    string
	Award     string
	Stage     string
	Council   string
	Division  string
	UpdatedAt time.Time
	CreatedAt time.Time
}

// ActivityLog 활동 일지
type ActivityLog struct {
	ID          uint
	UserID      string
	Activity    string
	Description string
	Council     string
	OccurredAt  time.Time
	CreatedAt   time.Time
}
