package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/infrastructure/http/middleware"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// AdminHandler 관리 엔드포인트 핸들러
type AdminHandler struct {
	logger        *zap.Logger
	adminUseCase  interfaces.AdminUseCase
	auditUseCase  interfaces.AuditUseCase
	reportUseCase interfaces.ReportUseCase
}

// NewAdminHandler 새 관리 핸들러 생성
func NewAdminHandler(
	logger *zap.Logger,
	adminUC interfaces.AdminUseCase,
	auditUC interfaces.AuditUseCase,
	reportUC interfaces.ReportUseCase,
) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		adminUseCase:  adminUC,
		auditUseCase:  auditUC,
		reportUseCase: reportUC,
	}
}

type inviteRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Council  string `json:"council"`
}

// Invite POST /admin/invite
func (h *AdminHandler) Invite(c echo.Context) error {
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	err := h.adminUseCase.Invite(c.Request().Context(), actor, dto.InviteParams{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     entity.Role(req.Role),
		Council:  req.Council,
	})
	if err != nil {
		return respondError(c, err)
	}

	invitationsTotal.Inc()

	return respondOK(c, http.StatusCreated, "Invitation sent", nil)
}

// ResendInvite POST /admin/invite/resend
func (h *AdminHandler) ResendInvite(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	if err := h.adminUseCase.ResendInvitation(c.Request().Context(), actor, req.Email); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Invitation resent", nil)
}

type roleChangeRequest struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Council string `json:"council"`
}

// Promote POST /admin/promote
func (h *AdminHandler) Promote(c echo.Context) error {
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	err := h.adminUseCase.PromoteRole(c.Request().Context(), actor, dto.RoleChangeParams{
		Email:   req.Email,
		NewRole: entity.Role(req.Role),
		Council: req.Council,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Role promoted", nil)
}

// Demote POST /admin/demote
func (h *AdminHandler) Demote(c echo.Context) error {
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	err := h.adminUseCase.DemoteRole(c.Request().Context(), actor, dto.RoleChangeParams{
		Email:   req.Email,
		NewRole: entity.Role(req.Role),
		Council: req.Council,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Role demoted", nil)
}

type memberStatusRequest struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// UpdateMemberStatus POST /admin/member-status
func (h *AdminHandler) UpdateMemberStatus(c echo.Context) error {
	var req memberStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	if err := h.adminUseCase.UpdateMemberStatus(c.Request().Context(), actor, req.Email, req.Status); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Membership status updated", nil)
}

func listParamsFromQuery(c echo.Context) dto.ListUsersParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	return dto.ListUsersParams{
		Council: c.QueryParam("council"),
		Status:  c.QueryParam("status"),
		Section: c.QueryParam("section"),
		Role:    entity.Role(c.QueryParam("role")),
		Name:    c.QueryParam("name"),
		Page:    page,
		PerPage: perPage,
	}
}

// ListUsers GET /admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	list, err := h.adminUseCase.ListUsers(c.Request().Context(), actor, listParamsFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Users retrieved", map[string]interface{}{
		"users":    newUserViews(list.Users),
		"total":    list.Total,
		"page":     list.Page,
		"per_page": list.PerPage,
	})
}

// ListUsersByStatus GET /admin/users/status/:status
func (h *AdminHandler) ListUsersByStatus(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	params := listParamsFromQuery(c)
	params.Status = c.Param("status")

	list, err := h.adminUseCase.ListUsers(c.Request().Context(), actor, params)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Users retrieved", map[string]interface{}{
		"users":    newUserViews(list.Users),
		"total":    list.Total,
		"page":     list.Page,
		"per_page": list.PerPage,
	})
}

// RoleStats GET /admin/role-stats
func (h *AdminHandler) RoleStats(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	counts, err := h.adminUseCase.RoleStats(c.Request().Context(), actor, c.QueryParam("council"))
	if err != nil {
		return respondError(c, err)
	}

	stats := make(map[string]int64, len(counts))
	for role, count := range counts {
		stats[string(role)] = count
	}

	return respondOK(c, http.StatusOK, "Role statistics retrieved", map[string]interface{}{
		"stats": stats,
	})
}

// StatusCounts GET /admin/status-counts
func (h *AdminHandler) StatusCounts(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	counts, err := h.adminUseCase.StatusCounts(c.Request().Context(), actor, c.QueryParam("council"))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Status counts retrieved", map[string]interface{}{
		"counts": counts,
	})
}

type editUserRequest struct {
	FullName          *string    `json:"full_name"`
	PhoneNumber       *string    `json:"phone_number"`
	Gender            *string    `json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	StateOfOrigin     *string    `json:"state_of_origin"`
	Lga               *string    `json:"lga"`
	Address           *string    `json:"address"`
	StateScoutCouncil *string    `json:"state_scout_council"`
	ScoutDivision     *string    `json:"scout_division"`
	ScoutDistrict     *string    `json:"scout_district"`
	Troop             *string    `json:"troop"`
	ScoutingRole      *string    `json:"scouting_role"`
	Section           *string    `json:"section"`
	ProfilePic        *string    `json:"profile_pic"`
}

func (r editUserRequest) toParams() dto.EditUserParams {
	return dto.EditUserParams{
		FullName:          r.FullName,
		PhoneNumber:       r.PhoneNumber,
		Gender:            r.Gender,
		DateOfBirth:       r.DateOfBirth,
		StateOfOrigin:     r.StateOfOrigin,
		Lga:               r.Lga,
		Address:           r.Address,
		StateScoutCouncil: r.StateScoutCouncil,
		ScoutDivision:     r.ScoutDivision,
		ScoutDistrict:     r.ScoutDistrict,
		Troop:             r.Troop,
		ScoutingRole:      r.ScoutingRole,
		Section:           r.Section,
		ProfilePic:        r.ProfilePic,
	}
}

// EditUser PUT /admin/users/:id
func (h *AdminHandler) EditUser(c echo.Context) error {
	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	actor := middleware.CurrentUser(c)
	user, err := h.adminUseCase.EditUser(c.Request().Context(), actor, c.Param("id"), req.toParams())
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "User updated", map[string]interface{}{
		"user": newUserView(user),
	})
}

// DeleteUser DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	if err := h.adminUseCase.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "User deleted", nil)
}

type auditTrailView struct {
	ID        uint                   `json:"id"`
	UserID    string                 `json:"user_id"`
	Field     string                 `json:"field"`
	OldValue  string                 `json:"old_value,omitempty"`
	NewValue  string                 `json:"new_value,omitempty"`
	ChangedBy string                 `json:"changed_by"`
	Remarks   string                 `json:"remarks,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditTrails GET /admin/audit-trails
func (h *AdminHandler) AuditTrails(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	list, err := h.auditUseCase.List(c.Request().Context(), actor, page, perPage)
	if err != nil {
		return respondError(c, err)
	}

	trails := make([]auditTrailView, 0, len(list.Trails))
	for _, t := range list.Trails {
		trails = append(trails, auditTrailView{
			ID:        t.ID,
			UserID:    t.UserID,
			Field:     t.Field,
			OldValue:  t.OldValue,
			NewValue:  t.NewValue,
			ChangedBy: t.ChangedBy,
			Remarks:   t.Remarks,
			Details:   t.Details,
			CreatedAt: t.CreatedAt,
		})
	}

	return respondOK(c, http.StatusOK, "Audit trails retrieved", map[string]interface{}{
		"trails":   trails,
		"total":    list.Total,
		"page":     list.Page,
		"per_page": list.PerPage,
	})
}

func statisticsParamsFromQuery(c echo.Context) (dto.StatisticsParams, error) {
	params := dto.StatisticsParams{
		Interval: c.QueryParam("interval"),
		Council:  c.QueryParam("council"),
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, errInvalidBody
		}
		params.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, errInvalidBody
		}
		params.To = to
	}

	return params, nil
}

// ReportStatistics GET /admin/report-statistics
func (h *AdminHandler) ReportStatistics(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	params, err := statisticsParamsFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.reportUseCase.Statistics(c.Request().Context(), actor, params)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Statistics retrieved", map[string]interface{}{
		"report": stats,
	})
}

// ExportStatistics GET /admin/report-statistics/export
func (h *AdminHandler) ExportStatistics(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	params, err := statisticsParamsFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	data, err := h.reportUseCase.ExportCSV(c.Request().Context(), actor, params)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="report-statistics.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
