package usecase

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// AuthUseCase 인증 상태 머신 유스케이스 구현체
type AuthUseCase struct {
	logger       *zap.Logger
	repos        *repository.Repositories
	tokenUseCase interfaces.TokenUseCase
	otpUseCase   interfaces.OTPUseCase
}

// NewAuthUseCase 새 인증 유스케이스 생성
func NewAuthUseCase(
	logger *zap.Logger,
	repos *repository.Repositories,
	tokenUC interfaces.TokenUseCase,
	otpUC interfaces.OTPUseCase,
) interfaces.AuthUseCase {
	return &AuthUseCase{
		logger:       logger,
		repos:        repos,
		tokenUseCase: tokenUC,
		otpUseCase:   otpUC,
	}
}

// audit 감사 항목 기록. 실패해도 본 작업을 막지 않고 로그만 남긴다.
func (uc *AuthUseCase) audit(ctx context.Context, trail *entity.AuditTrail) {
	if err := uc.repos.AuditTrail.Create(ctx, trail); err != nil {
		uc.logger.Error("감사 항목 저장 실패",
			zap.String("user_id", trail.UserID),
			zap.String("field", trail.Field),
			zap.Error(err),
		)
	}
}

// Register 사용자 회원가입
func (uc *AuthUseCase) Register(ctx context.Context, params dto.RegisterParams) (*entity.User, error) {
	// 1. 입력 검증
	email := NormalizeEmail(params.Email)
	if !IsValidEmail(email) {
		return nil, NewAuthError(ErrCodeValidation, "유효하지 않은 이메일 형식입니다")
	}
	if !IsValidPhoneNumber(params.PhoneNumber) {
		return nil, NewAuthError(ErrCodeValidation, "전화번호는 11자리 숫자여야 합니다")
	}
	if err := ValidatePasswordStrength(params.Password); err != nil {
		return nil, err
	}

	// 2. 이메일/전화번호 중복 확인
	existing, err := uc.repos.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("이메일 중복 확인 실패: %w", err)
	}
	if existing != nil {
		return nil, NewAuthError(ErrCodeConflict, "이미 등록된 이메일입니다")
	}

	existing, err = uc.repos.User.FindByPhoneNumber(ctx, params.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("전화번호 중복 확인 실패: %w", err)
	}
	if existing != nil {
		return nil, NewAuthError(ErrCodeConflict, "이미 등록된 전화번호입니다")
	}

	// 3. 비밀번호 해싱
	hashedPassword, salt, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("비밀번호 해싱 실패: %w", err)
	}

	// 4. 사용자 엔티티 생성
	user, err := entity.NewUser(params.FullName, email, params.PhoneNumber, hashedPassword, salt)
	if err != nil {
		return nil, NewAuthError(ErrCodeValidation, err.Error())
	}

	user.Gender = params.Gender
	user.DateOfBirth = params.DateOfBirth
	user.StateOfOrigin = params.StateOfOrigin
	user.Lga = params.Lga
	user.Address = params.Address
	user.StateScoutCouncil = params.StateScoutCouncil
	user.ScoutDivision = params.ScoutDivision
	user.ScoutDistrict = params.ScoutDistrict
	user.Troop = params.Troop
	user.ScoutingRole = params.ScoutingRole
	if params.Section != "" {
		user.Section = params.Section
	}

	user.ID, err = gonanoid.New(12)
	if err != nil {
		return nil, fmt.Errorf("사용자 ID 생성 실패: %w", err)
	}

	// 5. 가입 OTP 발급 (발송 실패는 가입을 막지 않음)
	if err := uc.otpUseCase.IssueRegistrationOtps(ctx, user); err != nil {
		return nil, err
	}

	// 6. 저장
	if err := uc.repos.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("사용자 생성 실패: %w", err)
	}

	// 7. 감사 항목 기록
	uc.audit(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldRegistration,
		NewValue:  string(user.Role),
		ChangedBy: user.FullName,
		Remarks:   "Self registration",
		Details: map[string]interface{}{
			"email":   user.Email,
			"council": user.StateScoutCouncil,
		},
	})

	return user, nil
}

// VerifyOtp 가입 OTP 검증.
// identifier가 이메일이면 이메일 채널, 전화번호면 전화 채널을 인증한다.
func (uc *AuthUseCase) VerifyOtp(ctx context.Context, identifier, code string) (*entity.User, error) {
	user, err := uc.repos.User.FindByOtpIdentifier(ctx, NormalizeEmail(identifier))
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	emailChannel := NormalizeEmail(identifier) == user.Email
	now := time.Now()

	// 채널별 중복 인증 확인
	if emailChannel && user.EmailVerified {
		return nil, NewAuthError(ErrCodeAlreadyVerified, "이미 인증된 이메일입니다")
	}
	if !emailChannel && user.PhoneVerified {
		return nil, NewAuthError(ErrCodeAlreadyVerified, "이미 인증된 전화번호입니다")
	}

	// 만료/부재 시 항상 실패 (fail-closed)
	if user.OtpExpires == nil || now.After(*user.OtpExpires) {
		return nil, NewAuthError(ErrCodeExpired, "만료된 인증 코드입니다")
	}

	expected := user.EmailOtp
	if !emailChannel {
		expected = user.PhoneOtp
	}
	if expected == "" || expected != code {
		return nil, NewAuthError(ErrCodeInvalidCode, "잘못된 인증 코드입니다")
	}

	// 인증 처리 + 코드 단일 사용 보장
	if emailChannel {
		user.EmailVerified = true
		user.EmailOtp = ""
	} else {
		user.PhoneVerified = true
		user.PhoneOtp = ""
	}

	// 양쪽 모두 인증되면 멤버십 ID를 부여하고 슬롯을 비운다
	needsMembershipID := user.IsFullyVerified() && user.MembershipID == ""
	if user.IsFullyVerified() {
		user.ClearLoginOtp()
	}

	// 멤버십 ID 부여는 초대 정산 트랜잭션 바깥에서 수행한다.
	// 유니크 충돌이 난 트랜잭션은 이후 문장을 모두 거부하므로
	// 재시도는 같은 트랜잭션 안에서 이루어질 수 없다.
	if needsMembershipID {
		if err := uc.assignMembershipID(ctx, user); err != nil {
			return nil, err
		}
	}

	// 초대 정산과 저장을 하나의 트랜잭션으로 묶는다
	err = uc.repos.Tx.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		if !needsMembershipID {
			if err := repos.User.Update(ctx, user); err != nil {
				return fmt.Errorf("사용자 업데이트 실패: %w", err)
			}
		}

		if emailChannel {
			return uc.reconcileInvitation(ctx, repos, user, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// assignMembershipID 멤버십 ID를 부여하고 저장한다.
// 유니크 인덱스 충돌 시 재생성하며, 마지막 시도는 확장 자릿수를 사용한다.
// 충돌이 트랜잭션 전체를 중단시키지 않도록 시도마다 새 트랜잭션을 연다.
func (uc *AuthUseCase) assignMembershipID(ctx context.Context, user *entity.User) error {
	var lastErr error
	for attempt := 0; attempt < membershipIDMaxRetries; attempt++ {
		wide := attempt == membershipIDMaxRetries-1
		user.MembershipID = ""
		if err := user.AssignMembershipID(NewMembershipID(user.StateScoutCouncil, wide)); err != nil {
			return err
		}

		err := uc.repos.Tx.WithinTransaction(ctx, func(repos *repository.Repositories) error {
			return repos.User.Update(ctx, user)
		})
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("멤버십 ID 부여 실패: %w", lastErr)
}

// reconcileInvitation 이메일 인증 완료 시 열린 초대를 정산한다.
// 유효한 초대는 역할/평의회를 부여하고, 만료된 초대는 만료 처리만 한다.
func (uc *AuthUseCase) reconcileInvitation(ctx context.Context, repos *repository.Repositories, user *entity.User, now time.Time) error {
	invitation, err := repos.Invitation.FindByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("초대 조회 실패: %w", err)
	}
	if invitation == nil || !invitation.IsOpen() {
		return nil
	}

	if invitation.IsExpired(now) {
		invitation.MarkExpired()
		if err := repos.Invitation.Update(ctx, invitation); err != nil {
			return fmt.Errorf("초대 만료 처리 실패: %w", err)
		}

		if err := repos.AuditTrail.Create(ctx, &entity.AuditTrail{
			UserID:    user.ID,
			Field:     entity.AuditFieldInvitation,
			OldValue:  entity.InvitationPending,
			NewValue:  entity.InvitationExpired,
			ChangedBy: "system",
			Remarks:   "Invitation Expired",
		}); err != nil {
			return fmt.Errorf("감사 항목 저장 실패: %w", err)
		}
		return nil
	}

	// 유효한 초대: 역할/평의회 부여와 수락을 원자적으로 처리
	oldRole := user.Role
	user.Role = invitation.Role
	user.StateScoutCouncil = invitation.Council

	if err := invitation.Accept(now); err != nil {
		return err
	}

	if err := repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("역할 부여 실패: %w", err)
	}
	if err := repos.Invitation.Update(ctx, invitation); err != nil {
		return fmt.Errorf("초대 수락 처리 실패: %w", err)
	}

	return repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldRole,
		OldValue:  string(oldRole),
		NewValue:  string(invitation.Role),
		ChangedBy: "system",
		Remarks:   "Invitation Promotion",
		Details: map[string]interface{}{
			"council":    invitation.Council,
			"invited_by": invitation.InvitedBy,
		},
	})
}

// ResendOtp 가입 OTP 재발급
func (uc *AuthUseCase) ResendOtp(ctx context.Context, email string) error {
	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	if user.IsFullyVerified() {
		return NewAuthError(ErrCodeAlreadyVerified, "이미 인증이 완료된 계정입니다")
	}

	// 이전 코드가 아직 유효하면 재발급하지 않는다
	if user.OtpExpires != nil && time.Now().Before(*user.OtpExpires) {
		return NewAuthError(ErrCodeRateLimited, "아직 유효한 인증 코드가 있습니다")
	}

	if err := uc.otpUseCase.IssueRegistrationOtps(ctx, user); err != nil {
		return err
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	return nil
}

// Login 로그인
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}

	// 계정 존재 여부를 노출하지 않는다
	if user == nil {
		return nil, NewAuthError(ErrCodeInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
	}

	if user.IsSuspended() {
		return nil, NewAuthError(ErrCodeForbidden, "정지된 계정입니다")
	}

	now := time.Now()

	// 잠금 확인
	if user.IsLocked(now) {
		user.IsLoggedIn = false
		if err := uc.repos.User.Update(ctx, user); err != nil {
			uc.logger.Warn("잠금 상태 갱신 실패", zap.Error(err))
		}
		return nil, uc.lockedError(user, now)
	}

	// 비밀번호 검증
	if err := VerifyPassword(user.Password, password, user.Salt); err != nil {
		locked := user.RecordFailedLogin(now)
		if err := uc.repos.User.Update(ctx, user); err != nil {
			uc.logger.Warn("로그인 실패 기록 저장 실패", zap.Error(err))
		}
		if locked {
			return nil, uc.lockedError(user, now)
		}
		return nil, NewAuthError(ErrCodeInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
	}

	user.ResetLoginFailures()

	// MFA 분기: email > phone > authenticator
	method := user.PreferredMfaMethod()
	if method != "" {
		if method == entity.MfaMethodEmail || method == entity.MfaMethodPhone {
			if err := uc.otpUseCase.IssueLoginOtp(ctx, user, method); err != nil {
				return nil, err
			}
		}

		if err := uc.repos.User.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
		}

		token, expiresAt, err := uc.tokenUseCase.GenerateMfaToken(ctx, user, method)
		if err != nil {
			return nil, err
		}

		return &dto.LoginResult{
			MfaRequired: true,
			MfaMethod:   method,
			Token:       token,
			ExpiresAt:   expiresAt,
			User:        user,
		}, nil
	}

	// MFA 미설정: 바로 세션 발급
	user.RecordLogin(now)
	if err := uc.repos.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	token, expiresAt, err := uc.tokenUseCase.GenerateSessionToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// lockedError 남은 잠금 시간을 담은 에러 생성
func (uc *AuthUseCase) lockedError(user *entity.User, now time.Time) error {
	minutes := int(user.LockRemaining(now).Minutes()) + 1
	return NewAuthError(ErrCodeAccountLocked,
		fmt.Sprintf("계정이 잠겼습니다. %d분 후 다시 시도하세요", minutes))
}

// VerifyMfa 로그인 2단계 검증 후 세션 토큰 발급
func (uc *AuthUseCase) VerifyMfa(ctx context.Context, params dto.VerifyMfaParams) (*dto.LoginResult, error) {
	user, err := uc.repos.User.FindByID(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	now := time.Now()
	matched := false

	// 이메일 OTP
	if params.EmailOtp != "" && user.EmailAuth {
		if user.OtpExpires == nil || now.After(*user.OtpExpires) {
			return nil, NewAuthError(ErrCodeExpired, "만료된 인증 코드입니다")
		}
		if user.EmailOtp != "" && user.EmailOtp == params.EmailOtp {
			matched = true
		}
	}

	// 전화 OTP
	if !matched && params.PhoneOtp != "" && user.PhoneAuth {
		if user.OtpExpires == nil || now.After(*user.OtpExpires) {
			return nil, NewAuthError(ErrCodeExpired, "만료된 인증 코드입니다")
		}
		if user.PhoneOtp != "" && user.PhoneOtp == params.PhoneOtp {
			matched = true
		}
	}

	// 인증앱 TOTP (±1 스텝 허용)
	if !matched && params.Totp != "" && user.AuthAppEnabled && user.AuthAppSecret != "" {
		ok, err := totp.ValidateCustom(params.Totp, user.AuthAppSecret, now, totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err == nil && ok {
			matched = true
		}
	}

	if !matched {
		return nil, NewAuthError(ErrCodeInvalidCode, "잘못된 인증 코드입니다")
	}

	// 코드 단일 사용 보장 + 로그인 확정
	user.ClearLoginOtp()
	user.RecordLogin(now)

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	token, expiresAt, err := uc.tokenUseCase.GenerateSessionToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// ForgotPassword 재설정 OTP 발급. 계정 존재 여부를 노출하지 않는다.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		// 미등록 이메일도 동일하게 성공으로 응답한다
		return nil
	}

	if err := uc.otpUseCase.IssueResetOtp(ctx, user); err != nil {
		return err
	}

	return uc.repos.User.Update(ctx, user)
}

// ResetPassword 재설정 OTP 검증 후 비밀번호 교체
func (uc *AuthUseCase) ResetPassword(ctx context.Context, email, otpCode, newPassword string) error {
	user, err := uc.repos.User.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}

	// 어떤 불일치든 같은 에러로 응답한다
	invalid := NewAuthError(ErrCodeInvalidOrExpired, "유효하지 않거나 만료된 코드입니다")
	if user == nil || user.ResetOtp == "" || user.ResetOtp != otpCode {
		return invalid
	}
	if user.ResetOtpExpires == nil || time.Now().After(*user.ResetOtpExpires) {
		return invalid
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, salt, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("비밀번호 해싱 실패: %w", err)
	}
	if err := user.ChangePassword(hashedPassword, salt); err != nil {
		return NewAuthError(ErrCodeValidation, err.Error())
	}
	user.ClearResetOtp()

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	uc.audit(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldPassword,
		ChangedBy: user.FullName,
		Remarks:   "Password reset via OTP",
	})

	return nil
}

// ChangePassword 현재 비밀번호 확인 후 교체
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}

	if err := VerifyPassword(user.Password, currentPassword, user.Salt); err != nil {
		return NewAuthError(ErrCodeInvalidCredentials, "현재 비밀번호가 올바르지 않습니다")
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, salt, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("비밀번호 해싱 실패: %w", err)
	}
	if err := user.ChangePassword(hashedPassword, salt); err != nil {
		return NewAuthError(ErrCodeValidation, err.Error())
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	uc.audit(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldPassword,
		ChangedBy: user.FullName,
		Remarks:   "Password changed",
	})

	return nil
}

// Logout 제시된 토큰 폐기
func (uc *AuthUseCase) Logout(ctx context.Context, userID, token string) error {
	if err := uc.tokenUseCase.RevokeToken(ctx, token); err != nil {
		return err
	}

	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil
	}

	user.IsLoggedIn = false
	if err := uc.repos.User.Update(ctx, user); err != nil {
		uc.logger.Warn("로그아웃 상태 갱신 실패", zap.Error(err))
	}

	return nil
}

// GetProfile 본인 프로필 조회
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}
	return user, nil
}

// UpdateProfile 본인 프로필 수정
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, params dto.EditUserParams) (*entity.User, error) {
	user, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := ApplyProfileEdits(user.Role, user, params)
	if len(changed) == 0 {
		return user, nil
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("프로필 업데이트 실패: %w", err)
	}

	uc.audit(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldProfile,
		ChangedBy: user.FullName,
		Remarks:   "Profile updated",
		Details: map[string]interface{}{
			"fields": changed,
		},
	})

	return user, nil
}
