package interfaces

import (
	"context"

	"membership-server/internal/domain/entity"
)

// OTPUseCase OTP 발급/발송 유스케이스 인터페이스.
// 사용자 엔티티의 OTP 슬롯을 채우고 메일/SMS 발송까지 담당한다.
// 엔티티 저장은 호출자 책임이다.
type OTPUseCase interface {
	// IssueRegistrationOtps 가입 인증 OTP 발급 (이메일 + 전화, 5분 유효)
	IssueRegistrationOtps(ctx context.Context, user *entity.User) error

	// IssueLoginOtp 로그인 2단계 OTP 발급 (지정 방식, 10분 유효)
	IssueLoginOtp(ctx context.Context, user *entity.User, method string) error

	// IssueResetOtp 비밀번호 재설정 OTP 발급 (10분 유효)
	IssueResetOtp(ctx context.Context, user *entity.User) error
}
