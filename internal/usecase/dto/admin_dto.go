package dto

import (
	"time"

	"membership-server/internal/domain/entity"
)

// InviteParams 관리자 초대 파라미터
type InviteParams struct {
	FullName string
	Email    string
	Role     entity.Role
	Council  string
}

// RoleChangeParams 역할 변경 파라미터
type RoleChangeParams struct {
	Email   string
	NewRole entity.Role
	Council string
}

// ListUsersParams 사용자 목록 조회 파라미터
type ListUsersParams struct {
	Council string
	Status  string
	Section string
	Role    entity.Role
	Name    string
	Page    int
	PerPage int
}

// UserList 페이지네이션된 사용자 목록
type UserList struct {
	Users   []*entity.User
	Total   int64
	Page    int
	PerPage int
}

// EditUserParams 프로필 수정 파라미터. nil 필드는 변경하지 않는다.
type EditUserParams struct {
	FullName          *string
	PhoneNumber       *string
	Gender            *string
	DateOfBirth       *time.Time
	StateOfOrigin     *string
	Lga               *string
	Address           *string
	StateScoutCouncil *string
	ScoutDivision     *string
	ScoutDistrict     *string
	Troop             *string
	ScoutingRole      *string
	Section           *string
	ProfilePic        *string
}

// AuditTrailList 페이지네이션된 감사 추적 목록
type AuditTrailList struct {
	Trails  []*entity.AuditTrail
	Total   int64
	Page    int
	PerPage int
}
