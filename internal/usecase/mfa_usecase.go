package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// MFAUseCase MFA 등록/해제 유스케이스 구현체
type MFAUseCase struct {
	logger     *zap.Logger
	issuer     string
	repos      *repository.Repositories
	otpUseCase interfaces.OTPUseCase
}

// NewMFAUseCase 새 MFA 유스케이스 생성
func NewMFAUseCase(
	logger *zap.Logger,
	issuer string,
	repos *repository.Repositories,
	otpUC interfaces.OTPUseCase,
) interfaces.MFAUseCase {
	return &MFAUseCase{
		logger:     logger,
		issuer:     issuer,
		repos:      repos,
		otpUseCase: otpUC,
	}
}

func (uc *MFAUseCase) findUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("사용자 조회 실패: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(ErrCodeNotFound, "등록되지 않은 계정입니다")
	}
	return user, nil
}

// SetupMfa MFA 등록 시작.
// 인증앱은 시크릿/프로비저닝 URI를 반환하고, 검증 전까지 활성화하지 않는다.
// 이메일/전화는 해당 채널로 10분 유효 OTP를 발송한다.
func (uc *MFAUseCase) SetupMfa(ctx context.Context, userID, method string) (*dto.MfaSetupResult, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch method {
	case entity.MfaMethodAuthenticator:
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      uc.issuer,
			AccountName: user.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("TOTP 시크릿 생성 실패: %w", err)
		}

		// 검증 전까지는 시크릿만 보관한다
		user.AuthAppSecret = key.Secret()
		user.AuthAppEnabled = false

		if err := uc.repos.User.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
		}

		return &dto.MfaSetupResult{
			Method: method,
			Secret: key.Secret(),
			OtpURL: key.URL(),
		}, nil

	case entity.MfaMethodEmail, entity.MfaMethodPhone:
		if err := uc.otpUseCase.IssueLoginOtp(ctx, user, method); err != nil {
			return nil, err
		}
		if err := uc.repos.User.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("사용자 업데이트 실패: %w", err)
		}
		return &dto.MfaSetupResult{Method: method}, nil

	default:
		return nil, NewAuthError(ErrCodeValidation, "지원하지 않는 2단계 인증 방식입니다")
	}
}

// VerifyMfaSetup 등록 검증 후 해당 방식 활성화.
// 방식은 서로 독립적이며, 하나를 켜도 다른 방식은 바뀌지 않는다.
func (uc *MFAUseCase) VerifyMfaSetup(ctx context.Context, userID, method, code string) error {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()

	switch method {
	case entity.MfaMethodAuthenticator:
		if user.AuthAppSecret == "" {
			return NewAuthError(ErrCodeValidation, "등록 중인 인증앱이 없습니다")
		}
		ok, err := totp.ValidateCustom(code, user.AuthAppSecret, now, totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err != nil || !ok {
			return NewAuthError(ErrCodeInvalidCode, "잘못된 인증 코드입니다")
		}
		user.AuthAppEnabled = true

	case entity.MfaMethodEmail:
		if user.OtpExpires == nil || now.After(*user.OtpExpires) {
			return NewAuthError(ErrCodeExpired, "만료된 인증 코드입니다")
		}
		if user.EmailOtp == "" || user.EmailOtp != code {
			return NewAuthError(ErrCodeInvalidCode, "잘못된 인증 코드입니다")
		}
		user.EmailOtp = ""
		user.EmailAuth = true

	case entity.MfaMethodPhone:
		if user.OtpExpires == nil || now.After(*user.OtpExpires) {
			return NewAuthError(ErrCodeExpired, "만료된 인증 코드입니다")
		}
		if user.PhoneOtp == "" || user.PhoneOtp != code {
			return NewAuthError(ErrCodeInvalidCode, "잘못된 인증 코드입니다")
		}
		user.PhoneOtp = ""
		user.PhoneAuth = true

	default:
		return NewAuthError(ErrCodeValidation, "지원하지 않는 2단계 인증 방식입니다")
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	if err := uc.repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldMfa,
		NewValue:  method,
		ChangedBy: user.FullName,
		Remarks:   "MFA method enabled",
	}); err != nil {
		uc.logger.Error("감사 항목 저장 실패", zap.Error(err))
	}

	return nil
}

// DisableMfa 해당 방식 비활성화. 다른 방식에는 영향을 주지 않는다.
func (uc *MFAUseCase) DisableMfa(ctx context.Context, userID, method string) error {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return err
	}

	switch method {
	case entity.MfaMethodAuthenticator:
		user.AuthAppEnabled = false
		user.AuthAppSecret = ""
	case entity.MfaMethodEmail:
		user.EmailAuth = false
		user.EmailOtp = ""
	case entity.MfaMethodPhone:
		user.PhoneAuth = false
		user.PhoneOtp = ""
	default:
		return NewAuthError(ErrCodeValidation, "지원하지 않는 2단계 인증 방식입니다")
	}

	if err := uc.repos.User.Update(ctx, user); err != nil {
		return fmt.Errorf("사용자 업데이트 실패: %w", err)
	}

	if err := uc.repos.AuditTrail.Create(ctx, &entity.AuditTrail{
		UserID:    user.ID,
		Field:     entity.AuditFieldMfa,
		OldValue:  method,
		ChangedBy: user.FullName,
		Remarks:   "MFA method disabled",
	}); err != nil {
		uc.logger.Error("감사 항목 저장 실패", zap.Error(err))
	}

	return nil
}

// Status 계정의 MFA 활성화 현황 조회
func (uc *MFAUseCase) Status(ctx context.Context, userID string) (*dto.MfaStatus, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.MfaStatus{
		EmailAuth:      user.EmailAuth,
		PhoneAuth:      user.PhoneAuth,
		AuthAppEnabled: user.AuthAppEnabled,
	}, nil
}
