package interfaces

import (
	"context"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// AuditUseCase 감사 추적 유스케이스 인터페이스
type AuditUseCase interface {
	// Record 감사 항목 추가 (추가 전용)
	Record(ctx context.Context, trail *entity.AuditTrail) error

	// List 호출자 범위 내 감사 항목 조회 (최신순)
	List(ctx context.Context, caller *entity.User, page, perPage int) (*dto.AuditTrailList, error)
}
