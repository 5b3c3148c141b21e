package entity

// Role 사용자 역할
type Role string

const (
	RoleMember     Role = "member"
	RoleLeader     Role = "leader"
	RoleSsAdmin    Role = "ssAdmin"
	RoleNsAdmin    Role = "nsAdmin"
	RoleSuperAdmin Role = "superAdmin"
)

// roleDisplayNames 역할별 표기 이름
var roleDisplayNames = map[Role]string{
	RoleMember:     "Member",
	RoleLeader:     "Leader",
	RoleSsAdmin:    "State Scout Admin",
	RoleNsAdmin:    "National Scout Admin",
	RoleSuperAdmin: "Super Admin",
}

// IsValid 정의된 역할인지 확인
func (r Role) IsValid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

// DisplayName 역할 표기 이름 반환
func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// IsAdmin 관리자 역할인지 확인
func (r Role) IsAdmin() bool {
	return r == RoleSsAdmin || r == RoleNsAdmin || r == RoleSuperAdmin
}

// InvitableRoles 초대로 부여할 수 있는 역할 목록
var InvitableRoles = []Role{RoleSsAdmin, RoleNsAdmin, RoleSuperAdmin}

// IsInvitable 초대 가능한 역할인지 확인
func (r Role) IsInvitable() bool {
	for _, role := range InvitableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanChangeRole actor가 대상 사용자의 역할을 target으로 변경할 수 있는지 확인.
// nsAdmin은 superAdmin을 건드릴 수 없고, member만 승격할 수 있다.
func CanChangeRole(actor Role, currentRole Role, target Role) bool {
	switch actor {
	case RoleSuperAdmin:
		return true
	case RoleNsAdmin:
		if currentRole == RoleSuperAdmin || target == RoleSuperAdmin {
			return false
		}
		// nsAdmin 승격은 member 대상만 허용, 강등은 superAdmin 외 모두 허용
		if isPromotion(currentRole, target) {
			return currentRole == RoleMember
		}
		return true
	default:
		return false
	}
}

// roleRank 역할 서열 (강등/승격 판정용)
var roleRank = map[Role]int{
	RoleMember:     0,
	RoleLeader:     1,
	RoleSsAdmin:    2,
	RoleNsAdmin:    3,
	RoleSuperAdmin: 4,
}

func isPromotion(from, to Role) bool {
	return roleRank[to] > roleRank[from]
}

// IsPromotion from에서 to로의 변경이 승격인지 확인
func IsPromotion(from, to Role) bool {
	return isPromotion(from, to)
}
