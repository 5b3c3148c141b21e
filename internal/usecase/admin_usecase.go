package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/mail"
	"membership-server/internal/usecase/constants"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// AdminUseCase 관리 기능 유스케이스 구현체
type AdminUseCase struct {
	logger    *zap.Logger
	repos     *repository.Repositories
	templates *mail.EmailTemplateService
}

// NewAdminUseCase 새 관리 유스케이스 생성
func NewAdminUseCase(
	logger *zap.Logger,
	repos *repository.Repositories,
	templates *mail.EmailTemplateService,
) interfaces.AdminUseCase {
	return &AdminUseCase{
		logger:    logger,
		repos:     repos,
		templates: templates,
	}
}

// Invite 관리자 초대 생성 + 초대 메일 발송
func (uc *AdminUseCase) Invite(ctx context.Context, actor *entity.User, params dto.InviteParams) error {
	if actor.Role != entity.RoleSuperAdmin && actor.Role != entity.RoleNsAdmin {
		return NewAuthError(ErrCodeForbidden, "초대 권한이 없습니다")
	}
	if !params.Role.IsInvitable() {
		return NewAuthError(ErrCodeValidation, "초대할 수 없는 역할입니다")
	}
	if actor.Role == entity.RoleNsAdmin && params.Role == entity.RoleSuperAdmin {
		return NewAuthError(ErrCodeForbidden, "superAdmin 초대 권한이 없습니다")
	}

	email := NormalizeEmail(params.Email)
	if !IsValidEmail(email) {
		return NewAuthError(ErrCodeValidation, "유효하지 않은 이메일 형식입니다")
	}

	// 이미 가입된 이메일은 승격 경로를 사용해야 한다
	existingUser, err := uc.repos.User.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if existingUser != nil {
		return NewAuthError(ErrCodeConflict, "이미 가입된 이메일입니다")
	}

	now := time.Now()

	existing, err := uc.repos.Invitation.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("초대 조회 실패: %w", err)
	}
	if existing != nil && existing.IsOpen() && !existing.IsExpired(now) {
		return NewAuthError(ErrCodeConflict, "이미 유효한 초대가 있습니다")
	}

	token := GenerateRandomString(48)

	if existing != nil {
		// 만료/수락된 초대 행은 새 초대로 재사용한다
		existing.FullName = params.FullName
		existing.Role = params.Role
		if params.Council != "" {
			existing.Council = params.Council
		}
		existing.InvitedBy = actor.ID
		existing.Token = token
		existing.Status = entity.InvitationPending
		existing.ExpiresAt = now.Add(entity.InvitationLifetime)

		if err := uc.repos.Invitation.Update(ctx, existing); err != nil {
			return fmt.Errorf("초대 갱신 실패: %w", err)
		}
	} else {
		invitation, err := entity.NewInvitation(params.FullName, email, params.Role, params.Council, actor.ID, token, now)
		if err != nil {
			return NewAuthError(ErrCodeValidation, err.Error())
		}
		if err := uc.repos.Invitation.Create(ctx, invitation); err != nil {
			return fmt.Errorf("초대 생성 실패: %w", err)
		}
	}

	// 온보딩 링크 토큰 등록
	cacheKey := constants.InviteTokenPrefix + token
	if err := uc.repos.Cache.Set(ctx, cacheKey, email, entity.InvitationLifetime); err != nil {
		uc.logger.Warn("초대 토큰 캐시 저장 실패", zap.Error(err))
	}

	council := params.Council
	if council == "" {
		council = entity.DefaultCouncil
	}

	body := uc.templates.GenerateInvitationEmailHTML(params.FullName, params.Role.DisplayName(), council, token)
	if err := uc.repos.Mail.SendMail(ctx, email, "You are invited", body); err != nil {
		return fmt.Errorf("초대 메일 발송 실패: %w", err)
	}

	if err := uc.repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    actor.ID,
		Field:     entity.AuditFieldInvitation,
		NewValue:  string(params.Role),
		ChangedBy: actor.FullName,
		Remarks:   "Invitation sent",
		Details: map[string]interface{}{
			"email":   email,
			"council": council,
		},
	}); err != nil {
		uc.logger.Error("감사 항목 저장 실패", zap.Error(err))
	}

	return nil
}

// ResendInvitation 초대 재발송. 새 토큰과 24시간 유효기간을 부여한다.
func (uc *AdminUseCase) ResendInvitation(ctx context.Context, actor *entity.User, email string) error {
	if actor.Role != entity.RoleSuperAdmin && actor.Role != entity.RoleNsAdmin {
		return NewAuthError(ErrCodeForbidden, "초대 권한이 없습니다")
	}

	email = NormalizeEmail(email)
	invitation, err := uc.repos.Invitation.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("초대 조회 실패: %w", err)
	}
	if invitation == nil {
		return NewAuthError(ErrCodeNotFound, "초대를 찾을 수 없습니다")
	}
	if invitation.Status == entity.InvitationAccepted {
		return NewAuthError(ErrCodeConflict, "이미 수락된 초대입니다")
	}

	token := GenerateRandomString(48)
	if err := invitation.Resend(token, time.Now()); err != nil {
		return NewAuthError(ErrCodeConflict, err.Error())
	}

	if err := uc.repos.Invitation.Update(ctx, invitation); err != nil {
		return fmt.Errorf("초대 갱신 실패: %w", err)
	}

	cacheKey := constants.InviteTokenPrefix + token
	if err := uc.repos.Cache.Set(ctx, cacheKey, email, entity.InvitationResendLifetime); err != nil {
		uc.logger.Warn("초대 토큰 캐시 저장 실패", zap.Error(err))
	}

	body := uc.templates.GenerateInvitationEmailHTML(invitation.FullName, invitation.Role.DisplayName(), invitation.Council, token)
	if err := uc.repos.Mail.SendMail(ctx, email, "Invitation reminder", body); err != nil {
		return fmt.Errorf("초대 메일 발송 실패: %w", err)
	}

	return nil
}

// changeRole 역할 변경 공통 처리.
// 감사 항목과 역할 변경을 같은 트랜잭션에서 커밋한다.
func (uc *AdminUseCase) changeRole(ctx context.Context, actor *entity.User, params dto.RoleChangeParams, promote bool) error {
	if !params.NewRole.IsValid() {
		return NewAuthError(ErrCodeValidation, "정의되지 않은 역할입니다")
	}

	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(params.Email))
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	if user.Role == params.NewRole {
		return NewAuthError(ErrCodeConflict, "이미 해당 역할입니다")
	}
	if promote != entity.IsPromotion(user.Role, params.NewRole) {
		if promote {
			return NewAuthError(ErrCodeValidation, "승격이 아닌 역할 변경입니다")
		}
		return NewAuthError(ErrCodeValidation, "강등이 아닌 역할 변경입니다")
	}
	if !entity.CanChangeRole(actor.Role, user.Role, params.NewRole) {
		return NewAuthError(ErrCodeForbidden, "역할 변경 권한이 없습니다")
	}

	oldRole := user.Role
	user.Role = params.NewRole
	if params.Council != "" {
		user.StateScoutCouncil = params.Council
	}

	remarks := "Role promoted"
	if !promote {
		remarks = "Role demoted"
	}

	err = uc.repos.Tx.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		// 감사 항목이 기록되지 않으면 역할 변경도 커밋되지 않는다
		if err := repos.AuditTrail.Create(ctx, &entity.AuditTrail{
			UserID:    user.ID,
			Field:     entity.AuditFieldRole,
			OldValue:  string(oldRole),
			NewValue:  string(params.NewRole),
			ChangedBy: actor.FullName,
			Remarks:   remarks,
		}); err != nil {
			return fmt.Errorf("감사 항목 저장 실패: %w", err)
		}
		return repos.User.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	// 변경 안내 메일 (실패해도 역할 변경은 유지)
	body := uc.templates.GenerateRoleChangeEmailHTML(user.FullName, params.NewRole.DisplayName(), actor.FullName)
	if err := uc.repos.Mail.SendMail(ctx, user.Email, "Your role has changed", body); err != nil {
		uc.logger.Warn("역할 변경 안내 메일 발송 실패",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}

	return nil
}

// PromoteRole 역할 승격
func (uc *AdminUseCase) PromoteRole(ctx context.Context, actor *entity.User, params dto.RoleChangeParams) error {
	return uc.changeRole(ctx, actor, params, true)
}

// DemoteRole 역할 강등
func (uc *AdminUseCase) DemoteRole(ctx context.Context, actor *entity.User, params dto.RoleChangeParams) error {
	return uc.changeRole(ctx, actor, params, false)
}

// UpdateMemberStatus 계정 상태 변경
func (uc *AdminUseCase) UpdateMemberStatus(ctx context.Context, actor *entity.User, email, status string) error {
	if !actor.Role.IsAdmin() {
		return NewAuthError(ErrCodeForbidden, "상태 변경 권한이 없습니다")
	}

	switch status {
	case entity.StatusActive, entity.StatusInactive, entity.StatusSuspended:
	default:
		return NewAuthError(ErrCodeValidation, "정의되지 않은 상태입니다")
	}

	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	// 범위 밖 사용자는 변경 불가
	scope := entity.ResolveScope(actor, entity.ScopeFilter{})
	if !scope.AllowsUser(user) {
		return NewAuthError(ErrCodeForbidden, "범위 밖의 사용자입니다")
	}

	oldStatus := user.Status
	user.Status = status

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	if err := uc.repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldStatus,
		OldValue:  oldStatus,
		NewValue:  status,
		ChangedBy: actor.FullName,
		Remarks:   "Membership status updated",
	}); err != nil {
		uc.logger.Error("감사 항목 저장 실패", zap.Error(err))
	}

	return nil
}

// ListUsers 범위 내 사용자 목록 조회
func (uc *AdminUseCase) ListUsers(ctx context.Context, actor *entity.User, params dto.ListUsersParams) (*dto.UserList, error) {
	if !actor.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "조회 권한이 없습니다")
	}

	scope := entity.ResolveScope(actor, entity.ScopeFilter{Council: params.Council})

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	users, total, err := uc.repos.User.List(ctx, repository.UserQuery{
		Scope:   scope,
		Status:  params.Status,
		Section: params.Section,
		Role:    params.Role,
		Name:    params.Name,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("사용자 목록 조회 실패: %w", err)
	}

	return &dto.UserList{
		Users:   users,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// RoleStats 범위 내 역할별 사용자 수
func (uc *AdminUseCase) RoleStats(ctx context.Context, actor *entity.User, council string) (map[entity.Role]int64, error) {
	if !actor.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "조회 권한이 없습니다")
	}

	scope := entity.ResolveScope(actor, entity.ScopeFilter{Council: council})
	counts, err := uc.repos.User.CountByRole(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("역할 통계 조회 실패: %w", err)
	}
	return counts, nil
}

// StatusCounts 범위 내 상태별 사용자 수
func (uc *AdminUseCase) StatusCounts(ctx context.Context, actor *entity.User, council string) (map[string]int64, error) {
	if !actor.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "조회 권한이 없습니다")
	}

	scope := entity.ResolveScope(actor, entity.ScopeFilter{Council: council})
	counts, err := uc.repos.User.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("상태 통계 조회 실패: %w", err)
	}
	return counts, nil
}

// EditUser 다른 사용자 프로필 수정
func (uc *AdminUseCase) EditUser(ctx context.Context, actor *entity.User, userID string, params dto.EditUserParams) (*entity.User, error) {
	if !actor.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "수정 권한이 없습니다")
	}

	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	scope := entity.ResolveScope(actor, entity.ScopeFilter{})
	if !scope.AllowsUser(user) {
		return nil, NewAuthError(ErrCodeForbidden, "범위 밖의 사용자입니다")
	}

	changed := ApplyProfileEdits(actor.Role, user, params)
	if len(changed) == 0 {
		return user, nil
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	if err := uc.repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldProfile,
		ChangedBy: actor.FullName,
		Remarks:   "Profile edited by admin",
		Details: map[string]interface{}{
			"fields": changed,
		},
	}); err != nil {
		uc.logger.Error("감사 항목 저장 실패", zap.Error(err))
	}

	return user, nil
}

// DeleteUser 사용자와 소유 기록 일괄 삭제
func (uc *AdminUseCase) DeleteUser(ctx context.Context, actor *entity.User, userID string) error {
	if actor.Role != entity.RoleSuperAdmin && actor.Role != entity.RoleNsAdmin {
		return NewAuthError(ErrCodeForbidden, "삭제 권한이 없습니다")
	}

	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	if actor.Role == entity.RoleNsAdmin && user.Role == entity.RoleSuperAdmin {
		return NewAuthError(ErrCodeForbidden, "superAdmin은 삭제할 수 없습니다")
	}

	err = uc.repos.Tx.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		if err := repos.Record.DeleteOwnedBy(ctx, user.ID); err != nil {
			return fmt.Errorf("소유 기록 삭제 실패: %w", err)
		}
		if err := repos.User.Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("사용자 삭제 실패: %w", err)
		}
		return repos.AuditTrail.Create(ctx, &entity.AuditTrail{
			UserID:    user.ID,
			Field:     entity.AuditFieldDeletion,
			OldValue:  user.Email,
			ChangedBy: actor.FullName,
			Remarks:   "User and owned records deleted",
		})
	})
	if err != nil {
		return err
	}

	return nil
}
