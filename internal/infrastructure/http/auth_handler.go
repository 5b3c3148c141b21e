package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"membership-server/internal/infrastructure/http/middleware"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// AuthHandler 인증 엔드포인트 핸들러
type AuthHandler struct {
	logger      *zap.Logger
	authUseCase interfaces.AuthUseCase
}

// NewAuthHandler 새 인증 핸들러 생성
func NewAuthHandler(logger *zap.Logger, authUC interfaces.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authUseCase: authUC,
	}
}

type registerRequest struct {
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phone_number"`
	Password          string     `json:"password"`
	Gender            string     `json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	StateOfOrigin     string     `json:"state_of_origin"`
	Lga               string     `json:"lga"`
	Address           string     `json:"address"`
	StateScoutCouncil string     `json:"state_scout_council"`
	ScoutDivision     string     `json:"scout_division"`
	ScoutDistrict     string     `json:"scout_district"`
	Troop             string     `json:"troop"`
	ScoutingRole      string     `json:"scouting_role"`
	Section           string     `json:"section"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.authUseCase.Register(c.Request().Context(), dto.RegisterParams{
		FullName:          req.FullName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Password:          req.Password,
		Gender:            req.Gender,
		DateOfBirth:       req.DateOfBirth,
		StateOfOrigin:     req.StateOfOrigin,
		Lga:               req.Lga,
		Address:           req.Address,
		StateScoutCouncil: req.StateScoutCouncil,
		ScoutDivision:     req.ScoutDivision,
		ScoutDistrict:     req.ScoutDistrict,
		Troop:             req.Troop,
		ScoutingRole:      req.ScoutingRole,
		Section:           req.Section,
	})
	if err != nil {
		return respondError(c, err)
	}

	registrationsTotal.Inc()

	return respondOK(c, http.StatusCreated, "Registration successful. Verification codes have been sent.", map[string]interface{}{
		"user": newUserView(user),
	})
}

type verifyOtpRequest struct {
	Identifier string `json:"identifier"`
	Otp        string `json:"otp"`
}

// VerifyOtp POST /auth/verify-otp
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	var req verifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.authUseCase.VerifyOtp(c.Request().Context(), req.Identifier, req.Otp)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Verification successful", map[string]interface{}{
		"user": newUserView(user),
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendOtp POST /auth/resend-otp
func (h *AuthHandler) ResendOtp(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.authUseCase.ResendOtp(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Verification codes have been resent", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		return respondError(c, err)
	}

	if result.MfaRequired {
		loginsTotal.WithLabelValues("mfa_pending").Inc()
		return respondOK(c, http.StatusOK, "Two-factor verification is required", map[string]interface{}{
			"mfa_required": true,
			"mfa_method":   result.MfaMethod,
			"token":        result.Token,
			"expires_at":   result.ExpiresAt,
		})
	}

	loginsTotal.WithLabelValues("success").Inc()

	return respondOK(c, http.StatusOK, "Login successful", map[string]interface{}{
		"mfa_required": false,
		"token":        result.Token,
		"expires_at":   result.ExpiresAt,
		"user":         newUserView(result.User),
	})
}

type verifyMfaRequest struct {
	EmailOtp string `json:"email_otp"`
	PhoneOtp string `json:"phone_otp"`
	Totp     string `json:"totp"`
}

// VerifyMfa POST /auth/verify-mfa (중간 토큰 필요)
func (h *AuthHandler) VerifyMfa(c echo.Context) error {
	var req verifyMfaRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	result, err := h.authUseCase.VerifyMfa(c.Request().Context(), dto.VerifyMfaParams{
		UserID:   user.ID,
		EmailOtp: req.EmailOtp,
		PhoneOtp: req.PhoneOtp,
		Totp:     req.Totp,
	})
	if err != nil {
		return respondError(c, err)
	}

	loginsTotal.WithLabelValues("success").Inc()

	return respondOK(c, http.StatusOK, "Login successful", map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       newUserView(result.User),
	})
}

// ForgotPassword POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.authUseCase.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	// 계정 존재 여부는 노출하지 않는다
	return respondOK(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.authUseCase.ResetPassword(c.Request().Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Password has been reset", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword POST /auth/change-password (세션 토큰 필요)
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	if err := h.authUseCase.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Password has been changed", nil)
}

// Logout POST /auth/logout (세션 토큰 필요)
func (h *AuthHandler) Logout(c echo.Context) error {
	user := middleware.CurrentUser(c)

	// 제시된 토큰을 폐기 목록에 등록한다
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	token := ""
	if len(parts) == 2 {
		token = parts[1]
	}

	if err := h.authUseCase.Logout(c.Request().Context(), user.ID, token); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Logged out", nil)
}

// Me GET /auth/me (세션 토큰 필요)
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)

	profile, err := h.authUseCase.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Profile retrieved", map[string]interface{}{
		"user": newUserView(profile),
	})
}

// UpdateMe PUT /auth/me (세션 토큰 필요)
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	updated, err := h.authUseCase.UpdateProfile(c.Request().Context(), user.ID, req.toParams())
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Profile updated", map[string]interface{}{
		"user": newUserView(updated),
	})
}
