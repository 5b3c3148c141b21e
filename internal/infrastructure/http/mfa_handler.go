package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"membership-server/internal/infrastructure/http/middleware"
	"membership-server/internal/usecase/interfaces"
)

// MfaHandler MFA 등록/해제 엔드포인트 핸들러
type MfaHandler struct {
	logger     *zap.Logger
	mfaUseCase interfaces.MFAUseCase
}

// NewMfaHandler 새 MFA 핸들러 생성
func NewMfaHandler(logger *zap.Logger, mfaUC interfaces.MFAUseCase) *MfaHandler {
	return &MfaHandler{
		logger:     logger,
		mfaUseCase: mfaUC,
	}
}

type mfaMethodRequest struct {
	Method string `json:"method"`
}

// Setup POST /mfa/setup
func (h *MfaHandler) Setup(c echo.Context) error {
	var req mfaMethodRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	result, err := h.mfaUseCase.SetupMfa(c.Request().Context(), user.ID, req.Method)
	if err != nil {
		return respondError(c, err)
	}

	extra := map[string]interface{}{
		"method": result.Method,
	}
	if result.Secret != "" {
		extra["secret"] = result.Secret
		extra["otp_url"] = result.OtpURL
	}

	return respondOK(c, http.StatusOK, "Two-factor setup started", extra)
}

type mfaVerifySetupRequest struct {
	Method string `json:"method"`
	Code   string `json:"code"`
}

// VerifySetup POST /mfa/verify-setup
func (h *MfaHandler) VerifySetup(c echo.Context) error {
	var req mfaVerifySetupRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	if err := h.mfaUseCase.VerifyMfaSetup(c.Request().Context(), user.ID, req.Method, req.Code); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Two-factor method enabled", nil)
}

// Disable POST /mfa/disable
func (h *MfaHandler) Disable(c echo.Context) error {
	var req mfaMethodRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := middleware.CurrentUser(c)
	if err := h.mfaUseCase.DisableMfa(c.Request().Context(), user.ID, req.Method); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Two-factor method disabled", nil)
}

// Status GET /mfa/status
func (h *MfaHandler) Status(c echo.Context) error {
	user := middleware.CurrentUser(c)

	status, err := h.mfaUseCase.Status(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, http.StatusOK, "Two-factor status retrieved", map[string]interface{}{
		"mfa": status,
	})
}
