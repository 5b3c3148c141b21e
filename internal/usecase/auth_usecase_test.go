package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/infrastructure/mail"
	"membership-server/internal/usecase"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

const testPassword = "Sc0ut!Passw0rd"

func newTestTemplates() *mail.EmailTemplateService {
	return mail.NewEmailTemplateService("https://portal.example.org", "support@example.org", "Membership Server")
}

func newAuthFixture(t *testing.T) (*testRepos, interfaces.AuthUseCase, *stubTokenUseCase) {
	t.Helper()

	repos := newTestRepos()
	logger := zap.NewNop()
	tokenUC := &stubTokenUseCase{}
	otpUC := usecase.NewOTPUseCase(logger, repos.Mail, repos.Sms, newTestTemplates())
	authUC := usecase.NewAuthUseCase(logger, repos.Repositories, tokenUC, otpUC)

	return repos, authUC, tokenUC
}

func registerUser(t *testing.T, authUC interfaces.AuthUseCase, email, phone string) *entity.User {
	t.Helper()

	user, err := authUC.Register(context.Background(), dto.RegisterParams{
		FullName:          "Ada Obi",
		Email:             email,
		PhoneNumber:       phone,
		Password:          testPassword,
		StateScoutCouncil: "Kano Scout Council",
	})
	require.NoError(t, err)
	return user
}

func TestAuthUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unverified account and dispatches both codes", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)

		user := registerUser(t, authUC, "Ada.Obi@Example.com", "08012345678")

		assert.Equal(t, "ada.obi@example.com", user.Email)
		assert.False(t, user.EmailVerified)
		assert.False(t, user.PhoneVerified)
		assert.Empty(t, user.MembershipID)
		assert.NotEmpty(t, user.EmailOtp)
		assert.NotEmpty(t, user.PhoneOtp)
		require.NotNil(t, user.OtpExpires)

		stored, err := repos.users.FindByEmail(ctx, "ada.obi@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)

		require.Len(t, repos.mail.sent, 1)
		// 본문에는 XXX-XXX 형식으로 표기된다
		assert.Contains(t, repos.mail.sent[0].Body, user.EmailOtp[:3]+"-"+user.EmailOtp[3:])
		require.Len(t, repos.sms.sent, 1)
		assert.Contains(t, repos.sms.sent[0].Message, user.PhoneOtp)

		assert.Len(t, repos.audits.byField(entity.AuditFieldRegistration), 1)
	})

	t.Run("mail dispatch failure does not block registration", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		repos.mail.sendErr = assert.AnError

		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		assert.NotEmpty(t, user.EmailOtp)
	})

	t.Run("rejects duplicate email and phone", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.Register(ctx, dto.RegisterParams{
			FullName:    "Other",
			Email:       "ADA@example.com",
			PhoneNumber: "08099999999",
			Password:    testPassword,
		})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeConflict))

		_, err = authUC.Register(ctx, dto.RegisterParams{
			FullName:    "Other",
			Email:       "other@example.com",
			PhoneNumber: "08012345678",
			Password:    testPassword,
		})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeConflict))
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)

		_, err := authUC.Register(ctx, dto.RegisterParams{
			FullName:    "Ada",
			Email:       "ada@example.com",
			PhoneNumber: "08012345678",
			Password:    "short",
		})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeValidation))
	})
}

func TestAuthUseCase_VerifyOtp(t *testing.T) {
	ctx := context.Background()
	membershipPattern := regexp.MustCompile(`^TSAN-[A-Z]{3}-\d{7}$`)

	t.Run("verifies each channel and assigns the membership id once both pass", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		verified, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)
		assert.True(t, verified.EmailVerified)
		assert.False(t, verified.PhoneVerified)
		assert.Empty(t, verified.MembershipID)

		verified, err = authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)
		assert.True(t, verified.PhoneVerified)
		assert.Regexp(t, membershipPattern, verified.MembershipID)

		// 단일 사용: 슬롯이 비워진다
		assert.Empty(t, verified.EmailOtp)
		assert.Empty(t, verified.PhoneOtp)
		assert.Nil(t, verified.OtpExpires)
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", "000000")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidCode))
	})

	t.Run("fails closed when the code expired", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		past := time.Now().Add(-time.Minute)
		user.OtpExpires = &past

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeExpired))
	})

	t.Run("rejects re-verification of an already verified channel", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		code := user.EmailOtp
		_, err := authUC.VerifyOtp(ctx, "ada@example.com", code)
		require.NoError(t, err)

		_, err = authUC.VerifyOtp(ctx, "ada@example.com", code)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeAlreadyVerified))
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)

		_, err := authUC.VerifyOtp(ctx, "nobody@example.com", "123456")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeNotFound))
	})

	t.Run("membership id collisions are retried in fresh transactions", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)

		// 충돌한 트랜잭션은 중단되므로 재시도는 새 트랜잭션에서만 성공할 수 있다
		repos.users.updateErrs = []error{errors.New("duplicate key value violates unique constraint")}

		verified, err := authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)
		assert.Regexp(t, membershipPattern, verified.MembershipID)
		assert.Empty(t, repos.users.updateErrs)
	})

	t.Run("the final collision retry widens the id", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)

		dup := errors.New("duplicate key value violates unique constraint")
		repos.users.updateErrs = []error{dup, dup, dup, dup}

		verified, err := authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)
		assert.Regexp(t, `^TSAN-[A-Z]{3}-\d{8}$`, verified.MembershipID)
	})

	t.Run("exhausted retries fail the verification", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)

		dup := errors.New("duplicate key value violates unique constraint")
		repos.users.updateErrs = []error{dup, dup, dup, dup, dup}

		_, err = authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		assert.ErrorContains(t, err, "멤버십 ID 부여 실패")
	})

	t.Run("membership id survives later verifications", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)
		verified, err := authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)

		first := verified.MembershipID
		require.NotEmpty(t, first)

		// 이미 부여된 ID는 재부여되지 않는다
		assert.Error(t, verified.AssignMembershipID("TSAN-XXX-9999999"))
		assert.Equal(t, first, verified.MembershipID)
	})
}

func TestAuthUseCase_InvitationReconciliation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("open invitation promotes role and council on email verification", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)

		inv, err := entity.NewInvitation("Ada Obi", "ada@example.com", entity.RoleSsAdmin, "Lagos Scout Council", "admin-1", "tok", now)
		require.NoError(t, err)
		require.NoError(t, repos.invitations.Create(ctx, inv))

		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		verified, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)

		assert.Equal(t, entity.RoleSsAdmin, verified.Role)
		assert.Equal(t, "Lagos Scout Council", verified.StateScoutCouncil)

		stored, err := repos.invitations.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationAccepted, stored.Status)

		// 승격 감사 항목이 같은 트랜잭션에서 기록된다
		roleTrails := repos.audits.byField(entity.AuditFieldRole)
		require.Len(t, roleTrails, 1)
		assert.Equal(t, string(entity.RoleMember), roleTrails[0].OldValue)
		assert.Equal(t, string(entity.RoleSsAdmin), roleTrails[0].NewValue)
		assert.Equal(t, "system", roleTrails[0].ChangedBy)
	})

	t.Run("expired invitation grants nothing and is marked expired", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)

		inv, err := entity.NewInvitation("Ada Obi", "ada@example.com", entity.RoleSsAdmin, "Lagos Scout Council", "admin-1", "tok", now.Add(-31*24*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repos.invitations.Create(ctx, inv))

		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		verified, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)

		assert.Equal(t, entity.RoleMember, verified.Role)

		stored, err := repos.invitations.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationExpired, stored.Status)

		trails := repos.audits.byField(entity.AuditFieldInvitation)
		require.Len(t, trails, 1)
		assert.Equal(t, entity.InvitationExpired, trails[0].NewValue)
	})

	t.Run("phone verification does not trigger reconciliation", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)

		inv, err := entity.NewInvitation("Ada Obi", "ada@example.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)
		require.NoError(t, repos.invitations.Create(ctx, inv))

		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		verified, err := authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)

		assert.Equal(t, entity.RoleMember, verified.Role)
		stored, _ := repos.invitations.FindByEmail(ctx, "ada@example.com")
		assert.Equal(t, entity.InvitationPending, stored.Status)
	})
}

func TestAuthUseCase_ResendOtp(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while the previous code is still valid", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		registerUser(t, authUC, "ada@example.com", "08012345678")

		err := authUC.ResendOtp(ctx, "ada@example.com")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeRateLimited))
	})

	t.Run("reissues after expiry", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		past := time.Now().Add(-time.Minute)
		user.OtpExpires = &past
		old := user.EmailOtp

		require.NoError(t, authUC.ResendOtp(ctx, "ada@example.com"))

		assert.NotEqual(t, old, user.EmailOtp)
		assert.Len(t, repos.mail.sent, 2)
	})

	t.Run("refuses for fully verified accounts", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		_, err := authUC.VerifyOtp(ctx, "ada@example.com", user.EmailOtp)
		require.NoError(t, err)
		_, err = authUC.VerifyOtp(ctx, "08012345678", user.PhoneOtp)
		require.NoError(t, err)

		err = authUC.ResendOtp(ctx, "ada@example.com")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeAlreadyVerified))
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown account and wrong password are indistinguishable", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		registerUser(t, authUC, "ada@example.com", "08012345678")

		_, errUnknown := authUC.Login(ctx, "nobody@example.com", testPassword)
		_, errWrong := authUC.Login(ctx, "ada@example.com", "Wrong!Passw0rd")

		assert.True(t, usecase.IsAuthError(errUnknown, usecase.ErrCodeInvalidCredentials))
		assert.True(t, usecase.IsAuthError(errWrong, usecase.ErrCodeInvalidCredentials))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("issues a session token when no MFA is enabled", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		result, err := authUC.Login(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)

		assert.False(t, result.MfaRequired)
		assert.Equal(t, "session-"+user.ID, result.Token)
		assert.True(t, user.IsLoggedIn)
	})

	t.Run("locks after five failures and stays locked for correct passwords", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		registerUser(t, authUC, "ada@example.com", "08012345678")

		var lastErr error
		for i := 0; i < entity.MaxFailedLogins; i++ {
			_, lastErr = authUC.Login(ctx, "ada@example.com", "Wrong!Passw0rd")
		}
		assert.True(t, usecase.IsAuthError(lastErr, usecase.ErrCodeAccountLocked))

		// 올바른 비밀번호도 잠금 중에는 통하지 않는다
		_, err := authUC.Login(ctx, "ada@example.com", testPassword)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeAccountLocked))
		assert.Contains(t, err.Error(), "15")
	})

	t.Run("rejects suspended accounts", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.Status = entity.StatusSuspended

		_, err := authUC.Login(ctx, "ada@example.com", testPassword)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeForbidden))
	})

	t.Run("email MFA yields an intermediate token and a fresh code", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.EmailAuth = true
		mailsBefore := len(repos.mail.sent)

		result, err := authUC.Login(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)

		assert.True(t, result.MfaRequired)
		assert.Equal(t, entity.MfaMethodEmail, result.MfaMethod)
		assert.Equal(t, "mfa-email-"+user.ID, result.Token)
		assert.NotEmpty(t, user.EmailOtp)
		assert.Len(t, repos.mail.sent, mailsBefore+1)

		// 세션 토큰은 아직 발급되지 않는다
		assert.False(t, user.IsLoggedIn)
	})

	t.Run("email takes precedence over phone and authenticator", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.EmailAuth = true
		user.PhoneAuth = true
		user.AuthAppEnabled = true

		result, err := authUC.Login(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, entity.MfaMethodEmail, result.MfaMethod)
	})

	t.Run("authenticator MFA issues no code, only the intermediate token", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.AuthAppEnabled = true
		user.AuthAppSecret = "JBSWY3DPEHPK3PXP"
		mailsBefore := len(repos.mail.sent)

		result, err := authUC.Login(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)

		assert.Equal(t, entity.MfaMethodAuthenticator, result.MfaMethod)
		assert.Len(t, repos.mail.sent, mailsBefore)
	})
}

func TestAuthUseCase_VerifyMfa(t *testing.T) {
	ctx := context.Background()

	setupMfaLogin := func(t *testing.T) (*testRepos, interfaces.AuthUseCase, *entity.User) {
		repos, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.EmailAuth = true

		_, err := authUC.Login(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)
		return repos, authUC, user
	}

	t.Run("correct email code completes the login", func(t *testing.T) {
		_, authUC, user := setupMfaLogin(t)

		result, err := authUC.VerifyMfa(ctx, dto.VerifyMfaParams{
			UserID:   user.ID,
			EmailOtp: user.EmailOtp,
		})
		require.NoError(t, err)

		assert.Equal(t, "session-"+user.ID, result.Token)
		assert.True(t, user.IsLoggedIn)

		// 코드 단일 사용 보장
		assert.Empty(t, user.EmailOtp)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		_, authUC, user := setupMfaLogin(t)

		_, err := authUC.VerifyMfa(ctx, dto.VerifyMfaParams{
			UserID:   user.ID,
			EmailOtp: "000000",
		})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidCode))
	})

	t.Run("expired code fails closed", func(t *testing.T) {
		_, authUC, user := setupMfaLogin(t)

		past := time.Now().Add(-time.Minute)
		user.OtpExpires = &past

		_, err := authUC.VerifyMfa(ctx, dto.VerifyMfaParams{
			UserID:   user.ID,
			EmailOtp: user.EmailOtp,
		})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeExpired))
	})

	t.Run("valid TOTP completes the login", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		user.AuthAppEnabled = true
		user.AuthAppSecret = "JBSWY3DPEHPK3PXP"

		code, err := totp.GenerateCode(user.AuthAppSecret, time.Now())
		require.NoError(t, err)

		result, err := authUC.VerifyMfa(ctx, dto.VerifyMfaParams{
			UserID: user.ID,
			Totp:   code,
		})
		require.NoError(t, err)
		assert.Equal(t, "session-"+user.ID, result.Token)
	})
}

func TestAuthUseCase_PasswordFlows(t *testing.T) {
	ctx := context.Background()

	t.Run("forgot password does not reveal account existence", func(t *testing.T) {
		repos, authUC, _ := newAuthFixture(t)

		require.NoError(t, authUC.ForgotPassword(ctx, "nobody@example.com"))
		assert.Empty(t, repos.mail.sent)
	})

	t.Run("reset with a valid code replaces the password", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		require.NoError(t, authUC.ForgotPassword(ctx, "ada@example.com"))
		require.NotEmpty(t, user.ResetOtp)

		newPassword := "N3w!Passw0rd"
		require.NoError(t, authUC.ResetPassword(ctx, "ada@example.com", user.ResetOtp, newPassword))

		assert.Empty(t, user.ResetOtp)

		_, err := authUC.Login(ctx, "ada@example.com", newPassword)
		assert.NoError(t, err)
	})

	t.Run("all reset mismatches yield the same error", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")
		require.NoError(t, authUC.ForgotPassword(ctx, "ada@example.com"))

		errWrongCode := authUC.ResetPassword(ctx, "ada@example.com", "000000", "N3w!Passw0rd")
		errUnknown := authUC.ResetPassword(ctx, "nobody@example.com", user.ResetOtp, "N3w!Passw0rd")

		assert.True(t, usecase.IsAuthError(errWrongCode, usecase.ErrCodeInvalidOrExpired))
		assert.True(t, usecase.IsAuthError(errUnknown, usecase.ErrCodeInvalidOrExpired))
		assert.Equal(t, errWrongCode.Error(), errUnknown.Error())
	})

	t.Run("change password requires the current one", func(t *testing.T) {
		_, authUC, _ := newAuthFixture(t)
		user := registerUser(t, authUC, "ada@example.com", "08012345678")

		err := authUC.ChangePassword(ctx, user.ID, "Wrong!Passw0rd", "N3w!Passw0rd")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidCredentials))

		require.NoError(t, authUC.ChangePassword(ctx, user.ID, testPassword, "N3w!Passw0rd"))
		_, err = authUC.Login(ctx, "ada@example.com", "N3w!Passw0rd")
		assert.NoError(t, err)
	})
}

func TestAuthUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	repos, authUC, tokenUC := newAuthFixture(t)
	user := registerUser(t, authUC, "ada@example.com", "08012345678")

	result, err := authUC.Login(ctx, "ada@example.com", testPassword)
	require.NoError(t, err)
	require.True(t, user.IsLoggedIn)

	require.NoError(t, authUC.Logout(ctx, user.ID, result.Token))

	assert.Contains(t, tokenUC.revoked, result.Token)
	assert.False(t, user.IsLoggedIn)

	stored, _ := repos.users.FindByID(ctx, user.ID)
	assert.False(t, stored.IsLoggedIn)
}
