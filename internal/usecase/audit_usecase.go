package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// AuditUseCase 감사 추적 유스케이스 구현체
type AuditUseCase struct {
	logger *zap.Logger
	repos  *repository.Repositories
}

// NewAuditUseCase 새 감사 유스케이스 생성
func NewAuditUseCase(logger *zap.Logger, repos *repository.Repositories) interfaces.AuditUseCase {
	return &AuditUseCase{
		logger: logger,
		repos:  repos,
	}
}

// Record 감사 항목 추가. 기존 항목은 수정/삭제되지 않는다.
func (uc *AuditUseCase) Record(ctx context.Context, trail *entity.AuditTrail) error {
	if trail.UserID == "" || trail.Field == "" {
		return NewAuthError(ErrCodeValidation, "감사 항목 필수 값이 누락되었습니다")
	}
	if err := uc.repos.AuditTrail.Create(ctx, trail); err != nil {
		return fmt.Errorf("감사 항목 저장 실패: %w", err)
	}
	return nil
}

// List 호출자 범위 내 감사 항목 조회. 관리자 역할만 접근할 수 있다.
func (uc *AuditUseCase) List(ctx context.Context, caller *entity.User, page, perPage int) (*dto.AuditTrailList, error) {
	if !caller.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "감사 추적 조회 권한이 없습니다")
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	scope := entity.ResolveScope(caller, entity.ScopeFilter{})

	trails, total, err := uc.repos.AuditTrail.List(ctx, scope, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("감사 추적 조회 실패: %w", err)
	}

	return &dto.AuditTrailList{
		Trails:  trails,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}
