package usecase

import (
	"slices"
	"time"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// 역할별 수정 가능 필드. membership_id와 role은 어떤 경로로도 수정되지 않는다.
// 각 목록은 독립된 배열을 갖는다 (append로 파생하면 백킹 배열을 공유할 수 있다).
var (
	baseEditableFields = []string{
		"address", "profile_pic", "gender", "date_of_birth", "state_of_origin", "lga",
	}

	councilEditableFields = slices.Concat(baseEditableFields, []string{
		"scout_division", "scout_district", "troop", "scouting_role", "section",
	})

	nationalEditableFields = slices.Concat(councilEditableFields, []string{
		"full_name", "phone_number", "state_scout_council",
	})
)

// editableFieldsFor 편집 주체 역할에 따른 수정 가능 필드 목록
func editableFieldsFor(editor entity.Role) []string {
	switch editor {
	case entity.RoleSuperAdmin, entity.RoleNsAdmin:
		return nationalEditableFields
	case entity.RoleSsAdmin:
		return councilEditableFields
	default:
		return baseEditableFields
	}
}

// ApplyProfileEdits 수정 가능 필드만 반영하고 변경된 필드 이름을 반환한다.
func ApplyProfileEdits(editor entity.Role, user *entity.User, params dto.EditUserParams) []string {
	allowed := make(map[string]bool)
	for _, f := range editableFieldsFor(editor) {
		allowed[f] = true
	}

	var changed []string

	setString := func(field string, target *string, value *string) {
		if value != nil && allowed[field] && *target != *value {
			*target = *value
			changed = append(changed, field)
		}
	}
	setTime := func(field string, target **time.Time, value *time.Time) {
		if value != nil && allowed[field] {
			*target = value
			changed = append(changed, field)
		}
	}

	setString("full_name", &user.FullName, params.FullName)
	setString("phone_number", &user.PhoneNumber, params.PhoneNumber)
	setString("gender", &user.Gender, params.Gender)
	setTime("date_of_birth", &user.DateOfBirth, params.DateOfBirth)
	setString("state_of_origin", &user.StateOfOrigin, params.StateOfOrigin)
	setString("lga", &user.Lga, params.Lga)
	setString("address", &user.Address, params.Address)
	setString("state_scout_council", &user.StateScoutCouncil, params.StateScoutCouncil)
	setString("scout_division", &user.ScoutDivision, params.ScoutDivision)
	setString("scout_district", &user.ScoutDistrict, params.ScoutDistrict)
	setString("troop", &user.Troop, params.Troop)
	setString("scouting_role", &user.ScoutingRole, params.ScoutingRole)
	setString("section", &user.Section, params.Section)
	setString("profile_pic", &user.ProfilePic, params.ProfilePic)

	return changed
}
