package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/db/model"
)

type InvitationRepositoryImpl struct {
	db *gorm.DB
}

// NewInvitationRepository 초대 레포지토리 구현체 생성
func NewInvitationRepository(db *gorm.DB) repository.InvitationRepository {
	return &InvitationRepositoryImpl{db: db}
}

// 도메인 엔티티를 DB 모델로 변환
func toInvitationModel(inv *entity.Invitation) *model.InvitationModel {
	return &model.InvitationModel{
		ID:        inv.ID,
		FullName:  inv.FullName,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Council:   inv.Council,
		InvitedBy: inv.InvitedBy,
		Token:     inv.Token,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// DB 모델을 도메인 엔티티로 변환
func toInvitationEntity(m *model.InvitationModel) *entity.Invitation {
	return &entity.Invitation{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		Role:      entity.Role(m.Role),
		Council:   m.Council,
		InvitedBy: m.InvitedBy,
		Token:     m.Token,
		Status:    m.Status,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FindByEmail 이메일로 초대 조회
func (r *InvitationRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.Invitation, error) {
	var invModel model.InvitationModel

	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&invModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toInvitationEntity(&invModel), nil
}

// Create 새 초대 생성
func (r *InvitationRepositoryImpl) Create(ctx context.Context, invitation *entity.Invitation) error {
	invModel := toInvitationModel(invitation)

	if err := r.db.WithContext(ctx).Create(invModel).Error; err != nil {
		return err
	}

	invitation.ID = invModel.ID
	return nil
}

// Update 초대 상태 업데이트
func (r *InvitationRepositoryImpl) Update(ctx context.Context, invitation *entity.Invitation) error {
	return r.db.WithContext(ctx).Save(toInvitationModel(invitation)).Error
}
