package entity

// ScopeFilter 호출자가 요청한 조회 필터
type ScopeFilter struct {
	Council  string
	Division string
}

// Scope 역할에 따라 확정된 조회 범위. 모든 목록/보고서/감사 조회가 이 범위를 적용한다.
type Scope struct {
	// Council 비어있지 않으면 해당 평의회로 제한
	Council string
	// Division 비어있지 않으면 해당 디비전으로 제한
	Division string
	// District 비어있지 않으면 해당 지구로 제한
	District string
	// Troop 비어있지 않으면 해당 부대로 제한
	Troop string
	// ExcludeRoles 결과에서 제외할 역할
	ExcludeRoles []Role
	// OwnerID 비어있지 않으면 본인 레코드만 허용
	OwnerID string
}

// ResolveScope 호출자 역할과 요청 필터로 조회 범위를 확정한다.
//
//	superAdmin: 제한 없음, 요청 필터 그대로 적용
//	nsAdmin:    superAdmin 행 제외, 그 외 요청 필터 적용
//	ssAdmin:    소속 평의회로 강제, 요청 평의회 무시
//	leader:     소속 평의회/디비전/지구/부대로 강제
//	member:     본인 레코드만
func ResolveScope(caller *User, requested ScopeFilter) Scope {
	switch caller.Role {
	case RoleSuperAdmin:
		return Scope{
			Council:  requested.Council,
			Division: requested.Division,
		}
	case RoleNsAdmin:
		return Scope{
			Council:      requested.Council,
			Division:     requested.Division,
			ExcludeRoles: []Role{RoleSuperAdmin},
		}
	case RoleSsAdmin:
		return Scope{
			Council:  caller.StateScoutCouncil,
			Division: requested.Division,
		}
	case RoleLeader:
		return Scope{
			Council:  caller.StateScoutCouncil,
			Division: caller.ScoutDivision,
			District: caller.ScoutDistrict,
			Troop:    caller.Troop,
		}
	default:
		return Scope{OwnerID: caller.ID}
	}
}

// OwnerOnly 본인 레코드 전용 범위인지 확인
func (s Scope) OwnerOnly() bool {
	return s.OwnerID != ""
}

// AllowsUser 대상 사용자가 범위에 포함되는지 확인
func (s Scope) AllowsUser(u *User) bool {
	if s.OwnerID != "" {
		return u.ID == s.OwnerID
	}
	if s.Council != "" && u.StateScoutCouncil != s.Council {
		return false
	}
	if s.Division != "" && u.ScoutDivision != s.Division {
		return false
	}
	if s.District != "" && u.ScoutDistrict != s.District {
		return false
	}
	if s.Troop != "" && u.Troop != s.Troop {
		return false
	}
	for _, r := range s.ExcludeRoles {
		if u.Role == r {
			return false
		}
	}
	return true
}
