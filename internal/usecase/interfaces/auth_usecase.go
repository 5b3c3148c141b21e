package interfaces

import (
	"context"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// AuthUseCase 인증 상태 머신 유스케이스 인터페이스
type AuthUseCase interface {
	// Register 회원가입. 가입 OTP 발급과 환영 메일 발송을 포함한다.
	Register(ctx context.Context, params dto.RegisterParams) (*entity.User, error)

	// VerifyOtp 가입 OTP 검증. identifier는 이메일 또는 전화번호.
	// 이메일 인증 완료 시 열린 초대가 있으면 같은 트랜잭션에서 승격 처리한다.
	VerifyOtp(ctx context.Context, identifier, code string) (*entity.User, error)

	// ResendOtp 가입 OTP 재발급
	ResendOtp(ctx context.Context, email string) error

	// Login 로그인. MFA 활성 계정은 중간 토큰을, 아니면 세션 토큰을 반환한다.
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)

	// VerifyMfa 로그인 2단계 검증 후 세션 토큰 발급
	VerifyMfa(ctx context.Context, params dto.VerifyMfaParams) (*dto.LoginResult, error)

	// ForgotPassword 재설정 OTP 발급. 계정 존재 여부를 노출하지 않는다.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword 재설정 OTP 검증 후 비밀번호 교체
	ResetPassword(ctx context.Context, email, otp, newPassword string) error

	// ChangePassword 현재 비밀번호 확인 후 교체
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// Logout 제시된 토큰 폐기
	Logout(ctx context.Context, userID, token string) error

	// GetProfile 본인 프로필 조회
	GetProfile(ctx context.Context, userID string) (*entity.User, error)

	// UpdateProfile 본인 프로필 수정. 역할별 수정 가능 필드만 반영된다.
	UpdateProfile(ctx context.Context, userID string, params dto.EditUserParams) (*entity.User, error)
}
