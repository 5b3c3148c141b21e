package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"membership-server/internal/domain/entity"
)

func TestResolveScope(t *testing.T) {
	superAdmin := &entity.User{ID: "u-super", Role: entity.RoleSuperAdmin, StateScoutCouncil: "Lagos Scout Council"}
	nsAdmin := &entity.User{ID: "u-ns", Role: entity.RoleNsAdmin, StateScoutCouncil: "FCT Scout Council"}
	ssAdmin := &entity.User{ID: "u-ss", Role: entity.RoleSsAdmin, StateScoutCouncil: "Kano Scout Council"}
	leader := &entity.User{ID: "u-leader", Role: entity.RoleLeader, StateScoutCouncil: "Kano Scout Council", ScoutDivision: "North", ScoutDistrict: "Nassarawa", Troop: "Eagle Troop"}
	member := &entity.User{ID: "u-member", Role: entity.RoleMember, StateScoutCouncil: "Kano Scout Council"}

	t.Run("superAdmin is unrestricted and keeps requested filters", func(t *testing.T) {
		scope := entity.ResolveScope(superAdmin, entity.ScopeFilter{Council: "Oyo Scout Council"})
		assert.Equal(t, "Oyo Scout Council", scope.Council)
		assert.Empty(t, scope.ExcludeRoles)
		assert.False(t, scope.OwnerOnly())
	})

	t.Run("nsAdmin never sees superAdmin rows", func(t *testing.T) {
		scope := entity.ResolveScope(nsAdmin, entity.ScopeFilter{})
		assert.Contains(t, scope.ExcludeRoles, entity.RoleSuperAdmin)
		assert.False(t, scope.AllowsUser(superAdmin))
		assert.True(t, scope.AllowsUser(member))
	})

	t.Run("ssAdmin is forced to own council even when requesting another", func(t *testing.T) {
		scope := entity.ResolveScope(ssAdmin, entity.ScopeFilter{Council: "Lagos Scout Council"})
		assert.Equal(t, "Kano Scout Council", scope.Council)
	})

	t.Run("leader is limited to own council, division, district and troop", func(t *testing.T) {
		scope := entity.ResolveScope(leader, entity.ScopeFilter{})
		assert.Equal(t, "Kano Scout Council", scope.Council)
		assert.Equal(t, "North", scope.Division)
		assert.Equal(t, "Nassarawa", scope.District)
		assert.Equal(t, "Eagle Troop", scope.Troop)

		otherDivision := &entity.User{StateScoutCouncil: "Kano Scout Council", ScoutDivision: "South", ScoutDistrict: "Nassarawa", Troop: "Eagle Troop"}
		assert.False(t, scope.AllowsUser(otherDivision))

		otherDistrict := &entity.User{StateScoutCouncil: "Kano Scout Council", ScoutDivision: "North", ScoutDistrict: "Dala", Troop: "Eagle Troop"}
		assert.False(t, scope.AllowsUser(otherDistrict))

		otherTroop := &entity.User{StateScoutCouncil: "Kano Scout Council", ScoutDivision: "North", ScoutDistrict: "Nassarawa", Troop: "Lion Troop"}
		assert.False(t, scope.AllowsUser(otherTroop))

		sameUnit := &entity.User{StateScoutCouncil: "Kano Scout Council", ScoutDivision: "North", ScoutDistrict: "Nassarawa", Troop: "Eagle Troop"}
		assert.True(t, scope.AllowsUser(sameUnit))
	})

	t.Run("member only sees own record", func(t *testing.T) {
		scope := entity.ResolveScope(member, entity.ScopeFilter{Council: "Lagos Scout Council"})
		assert.True(t, scope.OwnerOnly())
		assert.True(t, scope.AllowsUser(member))
		assert.False(t, scope.AllowsUser(leader))
	})
}
