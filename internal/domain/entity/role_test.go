package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"membership-server/internal/domain/entity"
)

func TestRole_IsValid(t *testing.T) {
	for _, r := range []entity.Role{
		entity.RoleMember, entity.RoleLeader, entity.RoleSsAdmin, entity.RoleNsAdmin, entity.RoleSuperAdmin,
	} {
		assert.True(t, r.IsValid(), string(r))
	}
	assert.False(t, entity.Role("admin").IsValid())
	assert.False(t, entity.Role("").IsValid())
}

func TestRole_IsInvitable(t *testing.T) {
	assert.True(t, entity.RoleSsAdmin.IsInvitable())
	assert.True(t, entity.RoleNsAdmin.IsInvitable())
	assert.True(t, entity.RoleSuperAdmin.IsInvitable())

	// member와 leader는 초대 대상이 아니다
	assert.False(t, entity.RoleMember.IsInvitable())
	assert.False(t, entity.RoleLeader.IsInvitable())
}

func TestCanChangeRole(t *testing.T) {
	tests := []struct {
		name    string
		actor   entity.Role
		current entity.Role
		target  entity.Role
		allowed bool
	}{
		{"superAdmin promotes member to leader", entity.RoleSuperAdmin, entity.RoleMember, entity.RoleLeader, true},
		{"superAdmin promotes ssAdmin to nsAdmin", entity.RoleSuperAdmin, entity.RoleSsAdmin, entity.RoleNsAdmin, true},
		{"superAdmin demotes nsAdmin to member", entity.RoleSuperAdmin, entity.RoleNsAdmin, entity.RoleMember, true},
		{"nsAdmin promotes member to leader", entity.RoleNsAdmin, entity.RoleMember, entity.RoleLeader, true},
		{"nsAdmin promotes member to ssAdmin", entity.RoleNsAdmin, entity.RoleMember, entity.RoleSsAdmin, true},
		{"nsAdmin cannot promote leader", entity.RoleNsAdmin, entity.RoleLeader, entity.RoleSsAdmin, false},
		{"nsAdmin cannot touch superAdmin", entity.RoleNsAdmin, entity.RoleSuperAdmin, entity.RoleNsAdmin, false},
		{"nsAdmin cannot promote to superAdmin", entity.RoleNsAdmin, entity.RoleMember, entity.RoleSuperAdmin, false},
		{"nsAdmin demotes ssAdmin to member", entity.RoleNsAdmin, entity.RoleSsAdmin, entity.RoleMember, true},
		{"ssAdmin cannot change roles", entity.RoleSsAdmin, entity.RoleMember, entity.RoleLeader, false},
		{"leader cannot change roles", entity.RoleLeader, entity.RoleMember, entity.RoleLeader, false},
		{"member cannot change roles", entity.RoleMember, entity.RoleMember, entity.RoleLeader, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, entity.CanChangeRole(tt.actor, tt.current, tt.target))
		})
	}
}

func TestIsPromotion(t *testing.T) {
	assert.True(t, entity.IsPromotion(entity.RoleMember, entity.RoleLeader))
	assert.True(t, entity.IsPromotion(entity.RoleSsAdmin, entity.RoleSuperAdmin))
	assert.False(t, entity.IsPromotion(entity.RoleLeader, entity.RoleMember))
	assert.False(t, entity.IsPromotion(entity.RoleLeader, entity.RoleLeader))
}
