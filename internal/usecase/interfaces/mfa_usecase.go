package interfaces

import (
	"context"

	"membership-server/internal/usecase/dto"
)

// MFAUseCase MFA 등록/해제 유스케이스 인터페이스
type MFAUseCase interface {
	// SetupMfa MFA 등록 시작. 인증앱은 시크릿/URI 반환, 이메일/전화는 OTP 발송.
	SetupMfa(ctx context.Context, userID, method string) (*dto.MfaSetupResult, error)

	// VerifyMfaSetup 등록 검증 후 해당 방식 활성화
	VerifyMfaSetup(ctx context.Context, userID, method, code string) error

	// DisableMfa 해당 방식 비활성화
	DisableMfa(ctx context.Context, userID, method string) error

	// Status 계정의 MFA 활성화 현황 조회
	Status(ctx context.Context, userID string) (*dto.MfaStatus, error)
}
