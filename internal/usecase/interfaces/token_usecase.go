package interfaces

import (
	"context"
	"time"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// TokenUseCase 토큰 발급/검증 유스케이스 인터페이스
type TokenUseCase interface {
	// GenerateSessionToken 세션 토큰 발급 (24시간)
	GenerateSessionToken(ctx context.Context, user *entity.User) (string, time.Time, error)

	// GenerateMfaToken 2단계 인증 대기용 중간 토큰 발급 (1시간)
	GenerateMfaToken(ctx context.Context, user *entity.User, method string) (string, time.Time, error)

	// ValidateToken 토큰 서명/만료/폐기 여부 검증 후 클레임 반환
	ValidateToken(ctx context.Context, token string) (*dto.TokenClaims, error)

	// RevokeToken 토큰을 남은 유효기간 동안 폐기 목록에 등록
	RevokeToken(ctx context.Context, token string) error
}
