package repository

import (
	"context"

	"membership-server/internal/domain/entity"
)

// InvitationRepository 초대 엔티티 관련 저장소 인터페이스
type InvitationRepository interface {
	// FindByEmail 이메일로 초대 조회. 없으면 (nil, nil).
	FindByEmail(ctx context.Context, email string) (*entity.Invitation, error)

	// Create 새 초대 생성
	Create(ctx context.Context, invitation *entity.Invitation) error

	// Update 초대 상태 업데이트
	Update(ctx context.Context, invitation *entity.Invitation) error
}
