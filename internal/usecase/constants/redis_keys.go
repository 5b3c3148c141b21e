package constants

// Redis 키 접두사
const (
	// RevokedTokenPrefix 폐기된 토큰 jti 키 접두사
	RevokedTokenPrefix = "mt:revoked:"

	// InviteTokenPrefix 초대 온보딩 토큰 키 접두사
	InviteTokenPrefix = "mt:invite:"
)

// OTP 정책 (분 단위)
const (
	// RegistrationOtpExpiry 가입 OTP 유효 시간
	RegistrationOtpExpiry = 5

	// MfaOtpExpiry 로그인 2단계/재설정 OTP 유효 시간
	MfaOtpExpiry = 10
)
