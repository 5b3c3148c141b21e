package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-server/internal/domain/entity"
)

func TestNewInvitation(t *testing.T) {
	now := time.Now()

	t.Run("defaults council when empty", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada Obi", "Ada@Example.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", inv.Email)
		assert.Equal(t, entity.DefaultCouncil, inv.Council)
		assert.Equal(t, entity.InvitationPending, inv.Status)
		assert.Equal(t, now.Add(entity.InvitationLifetime), inv.ExpiresAt)
	})

	t.Run("rejects non-invitable roles", func(t *testing.T) {
		_, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleMember, "", "admin-1", "tok", now)
		assert.Error(t, err)
	})
}

func TestInvitation_Accept(t *testing.T) {
	now := time.Now()

	t.Run("accepts an open unexpired invitation once", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)

		require.NoError(t, inv.Accept(now.Add(time.Hour)))
		assert.Equal(t, entity.InvitationAccepted, inv.Status)

		// 두 번째 수락은 거부된다
		assert.Error(t, inv.Accept(now.Add(2*time.Hour)))
	})

	t.Run("rejects expired invitation", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)

		err = inv.Accept(now.Add(entity.InvitationLifetime + time.Second))
		assert.Error(t, err)
		assert.Equal(t, entity.InvitationPending, inv.Status)
	})
}

func TestInvitation_Resend(t *testing.T) {
	now := time.Now()

	t.Run("issues a new token with a 24 hour window", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)

		later := now.Add(29 * 24 * time.Hour)
		require.NoError(t, inv.Resend("tok2", later))

		assert.Equal(t, "tok2", inv.Token)
		assert.Equal(t, entity.InvitationResent, inv.Status)
		assert.Equal(t, later.Add(entity.InvitationResendLifetime), inv.ExpiresAt)
		assert.True(t, inv.IsOpen())
	})

	t.Run("rejects resend after acceptance", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)
		require.NoError(t, inv.Accept(now))

		assert.Error(t, inv.Resend("tok2", now))
	})

	t.Run("an expired invitation can be resent", func(t *testing.T) {
		inv, err := entity.NewInvitation("Ada", "a@b.com", entity.RoleSsAdmin, "", "admin-1", "tok", now)
		require.NoError(t, err)
		inv.MarkExpired()

		require.NoError(t, inv.Resend("tok2", now))
		assert.Equal(t, entity.InvitationResent, inv.Status)
	})
}
