package entity

import (
	"errors"
	"strings"
	"time"
)

// 계정 상태
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// 섹션 (연령 구분)
const (
	SectionCub        = "Cub"
	SectionScout      = "Scout"
	SectionVenturer   = "Venturer"
	SectionRover      = "Rover"
	SectionVolunteers = "Volunteers"
)

// 로그인 잠금 정책
const (
	MaxFailedLogins = 5
	LockDuration    = 15 * time.Minute
)

// MFA 방식
const (
	MfaMethodEmail         = "email"
	MfaMethodPhone         = "phone"
	MfaMethodAuthenticator = "authenticator"
)

// User 비즈니스 도메인 엔티티
type User struct {
	ID                string
	MembershipID      string
	FullName          string
	Email             string
	PhoneNumber       string
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
	ProfilePic        string

	Password string
	Salt     string

	Role   Role
	Status string

	EmailVerified bool
	PhoneVerified bool

	// MFA 설정
	EmailAuth      bool
	PhoneAuth      bool
	AuthAppEnabled bool
	AuthAppSecret  string

	// OTP 슬롯
	EmailOtp        string
	PhoneOtp        string
	OtpExpires      *time.Time
	ResetOtp        string
	ResetOtpExpires *time.Time

	// 로그인 잠금
	FailedLoginAttempts int
	LockUntil           *time.Time
	IsLoggedIn          bool
	LastSignedIn        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 사용자 생성 팩토리 함수
func NewUser(fullName, email, phoneNumber, password, salt string) (*User, error) {
	if fullName == "" {
		return nil, errors.New("이름은 필수입니다")
	}

	if email == "" {
		return nil, errors.New("이메일은 필수입니다")
	}

	if password == "" || salt == "" {
		return nil, errors.New("비밀번호와 솔트는 필수입니다")
	}

	return &User{
		FullName:    fullName,
		Email:       strings.ToLower(email),
		PhoneNumber: phoneNumber,
		Password:    password,
		Salt:        salt,
		Role:        RoleMember,
		Status:      StatusActive,
		Section:     SectionVolunteers,
	}, nil
}

// IsActive 계정이 활성 상태인지 확인
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsSuspended 계정이 정지 상태인지 확인
func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

// IsFullyVerified 이메일과 전화번호가 모두 인증되었는지 확인
func (u *User) IsFullyVerified() bool {
	return u.EmailVerified && u.PhoneVerified
}

// IsLocked now 기준으로 로그인 잠금 상태인지 확인
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// LockRemaining 잠금 해제까지 남은 시간. 잠금이 아니면 0.
func (u *User) LockRemaining(now time.Time) time.Duration {
	if !u.IsLocked(now) {
		return 0
	}
	return u.LockUntil.Sub(now)
}

// RecordFailedLogin 로그인 실패 기록. 잠금 윈도우 중에는 카운터를 더 늘리지 않고,
// 임계치 도달 시 잠금을 설정한다. 잠금 설정 여부를 반환.
func (u *User) RecordFailedLogin(now time.Time) bool {
	if u.IsLocked(now) {
		return false
	}

	// 만료된 잠금이 남아있으면 카운터부터 초기화
	if u.LockUntil != nil && !u.LockUntil.After(now) {
		u.LockUntil = nil
		u.FailedLoginAttempts = 0
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLogins {
		until := now.Add(LockDuration)
		u.LockUntil = &until
		return true
	}
	return false
}

// RecordLogin 로그인 성공 기록
func (u *User) RecordLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
	u.IsLoggedIn = true
	u.LastSignedIn = &now
}

// ResetLoginFailures 실패 카운터 초기화 (MFA 분기 진입 시)
func (u *User) ResetLoginFailures() {
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
}

// MfaEnabled 하나 이상의 MFA 방식이 활성화되어 있는지 확인
func (u *User) MfaEnabled() bool {
	return u.EmailAuth || u.PhoneAuth || u.AuthAppEnabled
}

// PreferredMfaMethod 활성화된 MFA 방식 중 우선순위가 가장 높은 것 반환.
// 우선순위: email > phone > authenticator. 없으면 빈 문자열.
func (u *User) PreferredMfaMethod() string {
	switch {
	case u.EmailAuth:
		return MfaMethodEmail
	case u.PhoneAuth:
		return MfaMethodPhone
	case u.AuthAppEnabled:
		return MfaMethodAuthenticator
	}
	return ""
}

// SetLoginOtp 로그인/등록 OTP 슬롯 설정
func (u *User) SetLoginOtp(emailOtp, phoneOtp string, expires time.Time) {
	u.EmailOtp = emailOtp
	u.PhoneOtp = phoneOtp
	u.OtpExpires = &expires
}

// ClearLoginOtp OTP 슬롯 비우기 (단일 사용 보장)
func (u *User) ClearLoginOtp() {
	u.EmailOtp = ""
	u.PhoneOtp = ""
	u.OtpExpires = nil
}

// SetResetOtp 비밀번호 재설정 OTP 설정
func (u *User) SetResetOtp(otp string, expires time.Time) {
	u.ResetOtp = otp
	u.ResetOtpExpires = &expires
}

// ClearResetOtp 재설정 OTP 비우기
func (u *User) ClearResetOtp() {
	u.ResetOtp = ""
	u.ResetOtpExpires = nil
}

// ChangePassword 비밀번호 변경
func (u *User) ChangePassword(newPassword, newSalt string) error {
	if newPassword == "" || newSalt == "" {
		return errors.New("새 비밀번호와 솔트는 필수입니다")
	}

	u.Password = newPassword
	u.Salt = newSalt

	return nil
}

// AssignMembershipID 멤버십 ID 부여. 이미 부여된 ID는 변경 불가.
func (u *User) AssignMembershipID(id string) error {
	if u.MembershipID != "" {
		return errors.New("멤버십 ID는 재부여할 수 없습니다")
	}
	u.MembershipID = id
	return nil
}
