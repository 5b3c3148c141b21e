package usecase

import (
	"go.uber.org/zap"

	"membership-server/internal/config"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/mail"
	"membership-server/internal/usecase/interfaces"
)

// UseCases는 모든 유스케이스를 담고 있는 구조체입니다.
type UseCases struct {
	Auth   interfaces.AuthUseCase
	Token  interfaces.TokenUseCase
	OTP    interfaces.OTPUseCase
	MFA    interfaces.MFAUseCase
	Admin  interfaces.AdminUseCase
	Audit  interfaces.AuditUseCase
	Report interfaces.ReportUseCase
}

// SetupUseCases는 모든 유스케이스 구현체를 생성하고 의존성을 주입합니다.
func SetupUseCases(
	logger *zap.Logger,
	cfg *config.Config,
	repos *repository.Repositories,
	templates *mail.EmailTemplateService,
) (*UseCases, error) {
	// 1. 토큰 유스케이스 생성 (PEM 키 파싱 포함)
	tokenConfig := TokenConfig{
		Issuer:             cfg.JWT.Issuer,
		JwtPrivateKey:      cfg.JWT.PrivateKey,
		JwtPublicKey:       cfg.JWT.PublicKey,
		SessionTokenExpiry: cfg.JWT.SessionTokenExpiry,
		MfaTokenExpiry:     cfg.JWT.MfaTokenExpiry,
	}

	tokenUC, err := NewTokenUseCase(logger, tokenConfig, repos.Cache)
	if err != nil {
		return nil, err
	}

	// 2. OTP 유스케이스 생성
	otpUC := NewOTPUseCase(logger, repos.Mail, repos.Sms, templates)

	// 3. 인증 유스케이스 생성 (토큰/OTP 유스케이스를 의존)
	authUC := NewAuthUseCase(logger, repos, tokenUC, otpUC)

	// 4. MFA 유스케이스 생성
	mfaUC := NewMFAUseCase(logger, cfg.JWT.Issuer, repos, otpUC)

	// 5. 관리/감사/보고서 유스케이스 생성
	adminUC := NewAdminUseCase(logger, repos, templates)
	auditUC := NewAuditUseCase(logger, repos)
	reportUC := NewReportUseCase(logger, repos)

	return &UseCases{
		Auth:   authUC,
		Token:  tokenUC,
		OTP:    otpUC,
		MFA:    mfaUC,
		Admin:  adminUC,
		Audit:  auditUC,
		Report: reportUC,
	}, nil
}
