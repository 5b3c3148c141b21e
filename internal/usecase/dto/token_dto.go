package dto

import "time"

// TokenClaims 검증된 토큰에서 추출한 클레임
type TokenClaims struct {
	UserID     string
	Jti        string
	MfaPending bool
	MfaMethod  string
	ExpiresAt  time.Time
}
