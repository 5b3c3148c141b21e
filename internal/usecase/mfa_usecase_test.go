package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase"
	"membership-server/internal/usecase/interfaces"
)

func newMfaFixture(t *testing.T) (*testRepos, interfaces.MFAUseCase, *entity.User) {
	t.Helper()

	repos := newTestRepos()
	logger := zap.NewNop()
	otpUC := usecase.NewOTPUseCase(logger, repos.Mail, repos.Sms, newTestTemplates())
	mfaUC := usecase.NewMFAUseCase(logger, "Membership Server", repos.Repositories, otpUC)

	user := &entity.User{
		ID:          "user-1",
		FullName:    "Ada Obi",
		Email:       "ada@example.com",
		PhoneNumber: "08012345678",
		Role:        entity.RoleMember,
		Status:      entity.StatusActive,
	}
	repos.users.add(user)

	return repos, mfaUC, user
}

func TestMFAUseCase_AuthenticatorSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("setup stores the secret but does not enable the method", func(t *testing.T) {
		_, mfaUC, user := newMfaFixture(t)

		result, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodAuthenticator)
		require.NoError(t, err)

		assert.Equal(t, entity.MfaMethodAuthenticator, result.Method)
		assert.NotEmpty(t, result.Secret)
		assert.Contains(t, result.OtpURL, "otpauth://totp/")
		assert.Contains(t, result.OtpURL, "ada%40example.com")

		assert.Equal(t, result.Secret, user.AuthAppSecret)
		assert.False(t, user.AuthAppEnabled)
	})

	t.Run("a valid code enables the method", func(t *testing.T) {
		repos, mfaUC, user := newMfaFixture(t)

		result, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodAuthenticator)
		require.NoError(t, err)

		code, err := totp.GenerateCode(result.Secret, time.Now())
		require.NoError(t, err)

		require.NoError(t, mfaUC.VerifyMfaSetup(ctx, user.ID, entity.MfaMethodAuthenticator, code))
		assert.True(t, user.AuthAppEnabled)

		assert.Len(t, repos.audits.byField(entity.AuditFieldMfa), 1)
	})

	t.Run("an invalid code keeps the method disabled", func(t *testing.T) {
		_, mfaUC, user := newMfaFixture(t)

		_, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodAuthenticator)
		require.NoError(t, err)

		err = mfaUC.VerifyMfaSetup(ctx, user.ID, entity.MfaMethodAuthenticator, "000000")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidCode))
		assert.False(t, user.AuthAppEnabled)
	})
}

func TestMFAUseCase_EmailSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("setup sends a code and verification enables the method", func(t *testing.T) {
		repos, mfaUC, user := newMfaFixture(t)

		_, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodEmail)
		require.NoError(t, err)

		require.NotEmpty(t, user.EmailOtp)
		require.Len(t, repos.mail.sent, 1)
		assert.Contains(t, repos.mail.sent[0].Body, user.EmailOtp[:3])

		require.NoError(t, mfaUC.VerifyMfaSetup(ctx, user.ID, entity.MfaMethodEmail, user.EmailOtp))
		assert.True(t, user.EmailAuth)
		assert.Empty(t, user.EmailOtp)
	})

	t.Run("expired code fails closed", func(t *testing.T) {
		_, mfaUC, user := newMfaFixture(t)

		_, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodEmail)
		require.NoError(t, err)

		past := time.Now().Add(-time.Minute)
		user.OtpExpires = &past

		err = mfaUC.VerifyMfaSetup(ctx, user.ID, entity.MfaMethodEmail, user.EmailOtp)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeExpired))
		assert.False(t, user.EmailAuth)
	})
}

func TestMFAUseCase_PhoneSetup(t *testing.T) {
	ctx := context.Background()

	repos, mfaUC, user := newMfaFixture(t)

	_, err := mfaUC.SetupMfa(ctx, user.ID, entity.MfaMethodPhone)
	require.NoError(t, err)

	require.NotEmpty(t, user.PhoneOtp)
	require.Len(t, repos.sms.sent, 1)

	require.NoError(t, mfaUC.VerifyMfaSetup(ctx, user.ID, entity.MfaMethodPhone, user.PhoneOtp))
	assert.True(t, user.PhoneAuth)
}

func TestMFAUseCase_Disable(t *testing.T) {
	ctx := context.Background()

	t.Run("disabling one method leaves the others intact", func(t *testing.T) {
		_, mfaUC, user := newMfaFixture(t)
		user.EmailAuth = true
		user.PhoneAuth = true
		user.AuthAppEnabled = true
		user.AuthAppSecret = "JBSWY3DPEHPK3PXP"

		require.NoError(t, mfaUC.DisableMfa(ctx, user.ID, entity.MfaMethodAuthenticator))

		assert.False(t, user.AuthAppEnabled)
		assert.Empty(t, user.AuthAppSecret)
		assert.True(t, user.EmailAuth)
		assert.True(t, user.PhoneAuth)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, mfaUC, user := newMfaFixture(t)

		err := mfaUC.DisableMfa(ctx, user.ID, "sms")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeValidation))
	})
}

func TestMFAUseCase_Status(t *testing.T) {
	ctx := context.Background()

	_, mfaUC, user := newMfaFixture(t)
	user.EmailAuth = true

	status, err := mfaUC.Status(ctx, user.ID)
	require.NoError(t, err)

	assert.True(t, status.EmailAuth)
	assert.False(t, status.PhoneAuth)
	assert.False(t, status.AuthAppEnabled)
}
