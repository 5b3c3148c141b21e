package repository

import (
	"context"
	"time"

	"membership-server/internal/domain/entity"
)

// UserQuery 사용자 목록 조회 조건. Scope는 항상 적용된다.
type UserQuery struct {
	Scope   entity.Scope
	Status  string
	Section string
	Role    entity.Role
	Name    string
	Page    int
	PerPage int
}

// DateCount 일자별 집계 결과
type DateCount struct {
	Date  time.Time
	Count int64
}

// UserRepository 사용자 엔티티 관련 저장소 인터페이스
type UserRepository interface {
	// FindByID ID로 사용자 조회. 없으면 (nil, nil).
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail 이메일로 사용자 조회. 없으면 (nil, nil).
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByPhoneNumber 전화번호로 사용자 조회. 없으면 (nil, nil).
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*entity.User, error)

	// FindByOtpIdentifier 이메일 또는 전화번호로 사용자 조회. 없으면 (nil, nil).
	FindByOtpIdentifier(ctx context.Context, identifier string) (*entity.User, error)

	// Create 새 사용자 생성
	Create(ctx context.Context, user *entity.User) error

	// Update 사용자 정보 업데이트
	Update(ctx context.Context, user *entity.User) error

	// Delete 사용자 삭제
	Delete(ctx context.Context, id string) error

	// List 조건에 맞는 사용자 목록과 전체 건수 조회
	List(ctx context.Context, query UserQuery) ([]*entity.User, int64, error)

	// CountByRole 범위 내 역할별 사용자 수 집계
	CountByRole(ctx context.Context, scope entity.Scope) (map[entity.Role]int64, error)

	// CountByStatus 범위 내 상태별 사용자 수 집계
	CountByStatus(ctx context.Context, scope entity.Scope) (map[string]int64, error)

	// RegistrationSeries 범위 내 기간별 가입자 수 집계
	RegistrationSeries(ctx context.Context, scope entity.Scope, from, to time.Time) ([]DateCount, error)
}
