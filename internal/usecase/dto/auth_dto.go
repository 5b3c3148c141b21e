package dto

import (
	"time"

	"membership-server/internal/domain/entity"
)

// RegisterParams 회원가입 요청 파라미터
type RegisterParams struct {
	FullName          string
	Email             string
	PhoneNumber       string
	Password          string
	Gender            string
	DateOfBirth       *time.Time
	StateOfOrigin     string
	Lga               string
	Address           string
	StateScoutCouncil string
	ScoutDivision     string
	ScoutDistrict     string
	Troop             string
	ScoutingRole      string
	Section           string
}

// LoginResult 로그인 결과.
// MFA가 활성화된 계정은 중간 토큰과 방식이, 아니면 세션 토큰이 채워진다.
type LoginResult struct {
	MfaRequired bool
	MfaMethod   string
	Token       string
	ExpiresAt   time.Time
	User        *entity.User
}

// VerifyMfaParams 로그인 2단계 인증 파라미터
type VerifyMfaParams struct {
	UserID   string
	EmailOtp string
	PhoneOtp string
	Totp     string
}

// MfaSetupResult MFA 등록 시작 결과.
// 인증앱 방식이면 시크릿과 프로비저닝 URI가 채워진다.
type MfaSetupResult struct {
	Method string
	Secret string
	OtpURL string
}

// MfaStatus 계정의 MFA 활성화 현황
type MfaStatus struct {
	EmailAuth      bool `json:"email_auth"`
	PhoneAuth      bool `json:"phone_auth"`
	AuthAppEnabled bool `json:"auth_app_enabled"`
}
