package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase"
)

// 응답 포맷: 모든 응답은 status/message를 포함한다.

// errInvalidBody 본문 바인딩 실패 공통 에러
var errInvalidBody = usecase.NewAuthError(usecase.ErrCodeValidation, "Invalid request body")

// respondOK 성공 응답. extra의 키는 최상위에 병합된다.
func respondOK(c echo.Context, httpStatus int, message string, extra map[string]interface{}) error {
	body := map[string]interface{}{
		"status":  true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(httpStatus, body)
}

// respondError 실패 응답. 유스케이스 에러 코드를 HTTP 상태로 변환한다.
func respondError(c echo.Context, err error) error {
	authErr := usecase.AsAuthError(err)
	if authErr == nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  false,
			"message": "Something went wrong. Please try again later.",
		})
	}

	status := http.StatusBadRequest
	switch authErr.Code {
	case usecase.ErrCodeNotFound:
		status = http.StatusNotFound
	case usecase.ErrCodeConflict, usecase.ErrCodeAlreadyVerified:
		status = http.StatusConflict
	case usecase.ErrCodeInvalidCredentials:
		status = http.StatusUnauthorized
	case usecase.ErrCodeAccountLocked:
		status = http.StatusLocked
	case usecase.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case usecase.ErrCodeForbidden:
		status = http.StatusForbidden
	case usecase.ErrCodeInternal:
		status = http.StatusInternalServerError
	}

	return c.JSON(status, map[string]interface{}{
		"status":  false,
		"message": authErr.Message,
	})
}

// userView API 응답용 사용자 표현. 자격 증명과 OTP 슬롯은 제외된다.
type userView struct {
	ID                string     `json:"id"`
	MembershipID      string     `json:"membership_id,omitempty"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phone_number"`
	Gender            string     `json:"gender,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	StateOfOrigin     string     `json:"state_of_origin,omitempty"`
	Lga               string     `json:"lga,omitempty"`
	Address           string     `json:"address,omitempty"`
	StateScoutCouncil string     `json:"state_scout_council,omitempty"`
	ScoutDivision     string     `json:"scout_division,omitempty"`
	ScoutDistrict     string     `json:"scout_district,omitempty"`
	Troop             string     `json:"troop,omitempty"`
	ScoutingRole      string     `json:"scouting_role,omitempty"`
	Section           string     `json:"section,omitempty"`
	ProfilePic        string     `json:"profile_pic,omitempty"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	EmailVerified     bool       `json:"email_verified"`
	PhoneVerified     bool       `json:"phone_verified"`
	CreatedAt         time.Time  `json:"created_at"`
}

func newUserView(u *entity.User) userView {
	return userView{
		ID:                u.ID,
		MembershipID:      u.MembershipID,
		FullName:          u.FullName,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		Gender:            u.Gender,
		DateOfBirth:       u.DateOfBirth,
		StateOfOrigin:     u.StateOfOrigin,
		Lga:               u.Lga,
		Address:           u.Address,
		StateScoutCouncil: u.StateScoutCouncil,
		ScoutDivision:     u.ScoutDivision,
		ScoutDistrict:     u.ScoutDistrict,
		Troop:             u.Troop,
		ScoutingRole:      u.ScoutingRole,
		Section:           u.Section,
		ProfilePic:        u.ProfilePic,
		Role:              string(u.Role),
		Status:            u.Status,
		EmailVerified:     u.EmailVerified,
		PhoneVerified:     u.PhoneVerified,
		CreatedAt:         u.CreatedAt,
	}
}

func newUserViews(users []*entity.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views
}
