package entity

import (
	"errors"
	"strings"
	"time"
)

// 초대 상태
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
	InvitationResent   = "resent"
)

// 초대 유효기간
const (
	InvitationLifetime       = 30 * 24 * time.Hour
	InvitationResendLifetime = 24 * time.Hour
)

// DefaultCouncil 소속 미지정 초대의 기본 평의회
const DefaultCouncil = "FCT Scout Council"

// Invitation 관리자 초대 엔티티
type Invitation struct {
	ID        uint
	FullName  string
	Email     string
	Role      Role
	Council   string
	InvitedBy string
	Token     string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewInvitation 초대 생성 팩토리 함수
func NewInvitation(fullName, email string, role Role, council, invitedBy, token string, now time.Time) (*Invitation, error) {
	if fullName == "" || email == "" {
		return nil, errors.New("이름과 이메일은 필수입니다")
	}

	if !role.IsInvitable() {
		return nil, errors.New("초대할 수 없는 역할입니다")
	}

	if council == "" {
		council = DefaultCouncil
	}

	return &Invitation{
		FullName:  fullName,
		Email:     strings.ToLower(email),
		Role:      role,
		Council:   council,
		InvitedBy: invitedBy,
		Token:     token,
		Status:    InvitationPending,
		ExpiresAt: now.Add(InvitationLifetime),
	}, nil
}

// IsOpen 아직 수락 가능한 상태인지 확인 (pending 또는 resent)
func (i *Invitation) IsOpen() bool {
	return i.Status == InvitationPending || i.Status == InvitationResent
}

// IsExpired now 기준 만료 여부
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Accept 초대 수락 처리. 열린 상태에서만 한 번 수락할 수 있다.
func (i *Invitation) Accept(now time.Time) error {
	if !i.IsOpen() {
		return errors.New("이미 처리된 초대입니다")
	}
	if i.IsExpired(now) {
		return errors.New("만료된 초대입니다")
	}
	i.Status = InvitationAccepted
	return nil
}

// MarkExpired 만료 처리
func (i *Invitation) MarkExpired() {
	i.Status = InvitationExpired
}

// Resend 재발송 처리. 새 토큰과 24시간 유효기간을 부여한다.
func (i *Invitation) Resend(token string, now time.Time) error {
	if i.Status == InvitationAccepted {
		return errors.New("이미 수락된 초대입니다")
	}
	i.Token = token
	i.Status = InvitationResent
	i.ExpiresAt = now.Add(InvitationResendLifetime)
	return nil
}
