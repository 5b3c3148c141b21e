package repository

import (
	"context"

	"membership-server/internal/domain/entity"
)

// AuditTrailRepository 감사 추적 저장소 인터페이스. 추가와 조회만 제공한다.
type AuditTrailRepository interface {
	// Create 감사 항목 추가
	Create(ctx context.Context, trail *entity.AuditTrail) error

	// List 범위 내 감사 항목을 최신순으로 조회
	List(ctx context.Context, scope entity.Scope, page, perPage int) ([]*entity.AuditTrail, int64, error)
}
