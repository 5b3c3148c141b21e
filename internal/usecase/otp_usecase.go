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
	"membership-server/internal/usecase/interfaces"
)

// OTPUseCase OTP 유스케이스 구현체
type OTPUseCase struct {
	logger         *zap.Logger
	mailRepository repository.MailRepository
	smsRepository  repository.SmsRepository
	templates      *mail.EmailTemplateService
}

// NewOTPUseCase 새 OTP 유스케이스 생성
func NewOTPUseCase(
	logger *zap.Logger,
	mailRepo repository.MailRepository,
	smsRepo repository.SmsRepository,
	templates *mail.EmailTemplateService,
) interfaces.OTPUseCase {
	return &OTPUseCase{
		logger:         logger,
		mailRepository: mailRepo,
		smsRepository:  smsRepo,
		templates:      templates,
	}
}

// IssueRegistrationOtps 가입 인증 OTP 발급.
// 이메일/전화 코드를 슬롯에 채우고 환영 메일과 SMS를 발송한다.
// 발송 실패는 로그만 남기고 가입을 막지 않는다.
func (uc *OTPUseCase) IssueRegistrationOtps(ctx context.Context, user *entity.User) error {
	emailOtp := GenerateNumericOtp(6)
	phoneOtp := GenerateNumericOtp(6)
	expires := time.Now().Add(time.Duration(constants.RegistrationOtpExpiry) * time.Minute)

	user.SetLoginOtp(emailOtp, phoneOtp, expires)

	// 환영 + 이메일 인증 메일
	body := uc.templates.GenerateWelcomeEmailHTML(user.FullName, emailOtp)
	if err := uc.mailRepository.SendMail(ctx, user.Email, "Welcome! Verify your email", body); err != nil {
		uc.logger.Error("가입 인증 메일 발송 실패",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}

	// 전화 인증 SMS
	message := fmt.Sprintf("Your scout membership verification code is %s. It expires in %d minutes.",
		phoneOtp, constants.RegistrationOtpExpiry)
	if err := uc.smsRepository.SendSms(ctx, user.PhoneNumber, message); err != nil {
		uc.logger.Error("가입 인증 SMS 발송 실패",
			zap.String("phone", user.PhoneNumber),
			zap.Error(err),
		)
	}

	return nil
}

// IssueLoginOtp 로그인 2단계 OTP 발급
func (uc *OTPUseCase) IssueLoginOtp(ctx context.Context, user *entity.User, method string) error {
	code := GenerateNumericOtp(6)
	expires := time.Now().Add(time.Duration(constants.MfaOtpExpiry) * time.Minute)

	switch method {
	case entity.MfaMethodEmail:
		user.EmailOtp = code
		user.OtpExpires = &expires

		body := uc.templates.GenerateMfaEmailHTML(user.FullName, code)
		if err := uc.mailRepository.SendMail(ctx, user.Email, "Your sign-in code", body); err != nil {
			uc.logger.Error("2단계 인증 메일 발송 실패",
				zap.String("email", user.Email),
				zap.Error(err),
			)
			return fmt.Errorf("2단계 인증 메일 발송 실패: %w", err)
		}

	case entity.MfaMethodPhone:
		user.PhoneOtp = code
		user.OtpExpires = &expires

		message := fmt.Sprintf("Your sign-in code is %s. It expires in %d minutes.", code, constants.MfaOtpExpiry)
		if err := uc.smsRepository.SendSms(ctx, user.PhoneNumber, message); err != nil {
			uc.logger.Error("2단계 인증 SMS 발송 실패",
				zap.String("phone", user.PhoneNumber),
				zap.Error(err),
			)
			return fmt.Errorf("2단계 인증 SMS 발송 실패: %w", err)
		}

	default:
		return NewAuthError(ErrCodeValidation, "지원하지 않는 2단계 인증 방식입니다")
	}

	return nil
}

// IssueResetOtp 비밀번호 재설정 OTP 발급
func (uc *OTPUseCase) IssueResetOtp(ctx context.Context, user *entity.User) error {
	code := GenerateNumericOtp(6)
	expires := time.Now().Add(time.Duration(constants.MfaOtpExpiry) * time.Minute)

	user.SetResetOtp(code, expires)

	body := uc.templates.GenerateResetEmailHTML(user.FullName, code)
	if err := uc.mailRepository.SendMail(ctx, user.Email, "Password reset code", body); err != nil {
		uc.logger.Error("재설정 메일 발송 실패",
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return fmt.Errorf("재설정 메일 발송 실패: %w", err)
	}

	return nil
}
