package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase"
	"membership-server/internal/usecase/interfaces"
)

func newAuditFixture(t *testing.T) (*testRepos, interfaces.AuditUseCase) {
	t.Helper()

	repos := newTestRepos()
	auditUC := usecase.NewAuditUseCase(zap.NewNop(), repos.Repositories)
	return repos, auditUC
}

func TestAuditUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a trail entry", func(t *testing.T) {
		repos, auditUC := newAuditFixture(t)

		require.NoError(t, auditUC.Record(ctx, &entity.AuditTrail{
			UserID:    "user-1",
			Field:     entity.AuditFieldStatus,
			OldValue:  entity.StatusActive,
			NewValue:  entity.StatusSuspended,
			ChangedBy: "Ada Obi",
		}))

		require.Len(t, repos.audits.trails, 1)
		assert.Equal(t, "user-1", repos.audits.trails[0].UserID)
	})

	t.Run("user id and field are required", func(t *testing.T) {
		_, auditUC := newAuditFixture(t)

		err := auditUC.Record(ctx, &entity.AuditTrail{Field: entity.AuditFieldStatus})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeValidation))

		err = auditUC.Record(ctx, &entity.AuditTrail{UserID: "user-1"})
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeValidation))
	})
}

func TestAuditUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admins read the trail", func(t *testing.T) {
		repos, auditUC := newAuditFixture(t)
		actor := seedUser(repos, "boss", "boss@example.com", entity.RoleSuperAdmin, "")
		repos.audits.trails = []*entity.AuditTrail{
			{UserID: "user-1", Field: entity.AuditFieldRole},
			{UserID: "user-2", Field: entity.AuditFieldStatus},
		}

		list, err := auditUC.List(ctx, actor, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(2), list.Total)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 20, list.PerPage)
	})

	t.Run("members and leaders are refused", func(t *testing.T) {
		repos, auditUC := newAuditFixture(t)
		member := seedUser(repos, "m1", "m1@example.com", entity.RoleMember, "Kano Scout Council")
		leader := seedUser(repos, "l1", "l1@example.com", entity.RoleLeader, "Kano Scout Council")

		_, err := auditUC.List(ctx, member, 1, 20)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeForbidden))

		_, err = auditUC.List(ctx, leader, 1, 20)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeForbidden))
	})
}
