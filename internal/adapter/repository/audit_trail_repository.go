package repository

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/db/model"
)

type AuditTrailRepositoryImpl struct {
	db *gorm.DB
}

// NewAuditTrailRepository 감사 추적 레포지토리 구현체 생성
func NewAuditTrailRepository(db *gorm.DB) repository.AuditTrailRepository {
	return &AuditTrailRepositoryImpl{db: db}
}

// 도메인 엔티티를 DB 모델로 변환
func toAuditTrailModel(trail *entity.AuditTrail) (*model.AuditTrailModel, error) {
	var details datatypes.JSON
	if trail.Details != nil {
		raw, err := json.Marshal(trail.Details)
		if err != nil {
			return nil, err
		}
		details = datatypes.JSON(raw)
	}

	return &model.AuditTrailModel{
		ID:        trail.ID,
		UserID:    trail.UserID,
		Field:     trail.Field,
		OldValue:  trail.OldValue,
		NewValue:  trail.NewValue,
		ChangedBy: trail.ChangedBy,
		Remarks:   trail.Remarks,
		Details:   details,
		CreatedAt: trail.CreatedAt,
	}, nil
}

// DB 모델을 도메인 엔티티로 변환
func toAuditTrailEntity(m *model.AuditTrailModel) *entity.AuditTrail {
	var details map[string]interface{}
	if len(m.Details) > 0 {
		// 손상된 JSON은 무시하고 나머지 필드만 반환
		_ = json.Unmarshal(m.Details, &details)
	}

	return &entity.AuditTrail{
		ID:        m.ID,
		UserID:    m.UserID,
		Field:     m.Field,
		OldValue:  m.OldValue,
		NewValue:  m.NewValue,
		ChangedBy: m.ChangedBy,
		Remarks:   m.Remarks,
		Details:   details,
		CreatedAt: m.CreatedAt,
	}
}

// Create 감사 항목 추가
func (r *AuditTrailRepositoryImpl) Create(ctx context.Context, trail *entity.AuditTrail) error {
	trailModel, err := toAuditTrailModel(trail)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(trailModel).Error; err != nil {
		return err
	}

	trail.ID = trailModel.ID
	trail.CreatedAt = trailModel.CreatedAt
	return nil
}

// List 범위 내 감사 항목을 최신순으로 조회.
// 범위가 평의회로 제한된 경우 대상 사용자의 소속으로 필터링한다.
func (r *AuditTrailRepositoryImpl) List(ctx context.Context, scope entity.Scope, page, perPage int) ([]*entity.AuditTrail, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.AuditTrailModel{})

	if scope.OwnerID != "" {
		tx = tx.Where("user_id = ?", scope.OwnerID)
	} else if scope.Council != "" {
		tx = tx.Where("user_id IN (?)",
			r.db.Model(&model.UserModel{}).Select("id").Where("state_scout_council = ?", scope.Council),
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var models []model.AuditTrailModel
	err := tx.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	trails := make([]*entity.AuditTrail, 0, len(models))
	for i := range models {
		trails = append(trails, toAuditTrailEntity(&models[i]))
	}

	return trails, total, nil
}
