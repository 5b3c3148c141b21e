package interfaces

import (
	"context"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// AdminUseCase 관리 기능 유스케이스 인터페이스.
// 모든 조회는 호출자 역할로 확정된 범위를 적용한다.
type AdminUseCase interface {
	// Invite 관리자 초대 생성 + 초대 메일 발송
	Invite(ctx context.Context, actor *entity.User, params dto.InviteParams) error

	// ResendInvitation 초대 재발송 (새 토큰, 24시간 유효)
	ResendInvitation(ctx context.Context, actor *entity.User, email string) error

	// PromoteRole 역할 승격
	PromoteRole(ctx context.Context, actor *entity.User, params dto.RoleChangeParams) error

	// DemoteRole 역할 강등
	DemoteRole(ctx context.Context, actor *entity.User, params dto.RoleChangeParams) error

	// UpdateMemberStatus 계정 상태 변경 (active/inactive/suspended)
	UpdateMemberStatus(ctx context.Context, actor *entity.User, email, status string) error

	// ListUsers 범위 내 사용자 목록 조회
	ListUsers(ctx context.Context, actor *entity.User, params dto.ListUsersParams) (*dto.UserList, error)

	// RoleStats 범위 내 역할별 사용자 수
	RoleStats(ctx context.Context, actor *entity.User, council string) (map[entity.Role]int64, error)

	// StatusCounts 범위 내 상태별 사용자 수
	StatusCounts(ctx context.Context, actor *entity.User, council string) (map[string]int64, error)

	// EditUser 다른 사용자 프로필 수정. 역할별 수정 가능 필드만 반영된다.
	EditUser(ctx context.Context, actor *entity.User, userID string, params dto.EditUserParams) (*entity.User, error)

	// DeleteUser 사용자와 소유 기록 일괄 삭제
	DeleteUser(ctx context.Context, actor *entity.User, userID string) error
}
