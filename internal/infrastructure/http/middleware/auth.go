package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/interfaces"
)

// 컨텍스트 키 상수
const (
	UserIDKey = "user_id"
	UserKey   = "user"
	ClaimsKey = "token_claims"
)

// TokenMiddleware는 토큰 인증을 처리하는 미들웨어입니다.
// 토큰 유효성 검증과 같은 비즈니스 로직은 TokenUseCase에 위임합니다.
type TokenMiddleware struct {
	tokenUseCase interfaces.TokenUseCase
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewTokenMiddleware는 새로운 토큰 인증 미들웨어를 생성합니다.
func NewTokenMiddleware(
	tokenUseCase interfaces.TokenUseCase,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *TokenMiddleware {
	return &TokenMiddleware{
		tokenUseCase: tokenUseCase,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}

// authenticate 토큰 검증 + 사용자 로드 공통 처리.
// allowMfaPending이 false면 2단계 인증 대기 토큰을 거부한다.
func (m *TokenMiddleware) authenticate(c echo.Context, allowMfaPending bool) (*entity.User, error) {
	// 1. 요청 헤더에서 토큰 추출
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, unauthorized(c, "Authentication token is missing")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, unauthorized(c, "Invalid authorization header format")
	}

	// 2. 토큰 유스케이스를 통해 서명/만료/폐기 검증
	claims, err := m.tokenUseCase.ValidateToken(c.Request().Context(), parts[1])
	if err != nil {
		m.logger.Info("인증 실패",
			zap.String("error", err.Error()),
			zap.String("ip", c.RealIP()),
			zap.String("path", c.Request().URL.Path),
		)
		return nil, unauthorized(c, "Invalid or expired token")
	}

	// 3. 중간 토큰은 2단계 검증 엔드포인트에서만 통용된다
	if claims.MfaPending && !allowMfaPending {
		return nil, unauthorized(c, "Two-factor verification is required")
	}
	if !claims.MfaPending && allowMfaPending {
		return nil, unauthorized(c, "A pending two-factor token is required")
	}

	// 4. 사용자 로드 및 정지 여부 확인
	user, err := m.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil || user == nil {
		return nil, unauthorized(c, "Account not found")
	}
	if user.IsSuspended() {
		return nil, c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  false,
			"message": "This account has been suspended",
		})
	}

	c.Set(UserIDKey, user.ID)
	c.Set(UserKey, user)
	c.Set(ClaimsKey, claims)
	return user, nil
}

// Authenticate 세션 토큰 인증 미들웨어
func (m *TokenMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := m.authenticate(c, false); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// AuthenticateMfaPending 중간 토큰 전용 인증 미들웨어
func (m *TokenMiddleware) AuthenticateMfaPending() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := m.authenticate(c, true); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireRoles 지정된 역할만 통과시키는 미들웨어. Authenticate 이후에 사용한다.
func (m *TokenMiddleware) RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	allowed := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserKey).(*entity.User)
			if !ok {
				return unauthorized(c, "Authentication token is missing")
			}
			if !allowed[user.Role] {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"status":  false,
					"message": "You do not have permission to perform this action",
				})
			}
			return next(c)
		}
	}
}

// CurrentUser 컨텍스트에서 인증된 사용자 추출
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(UserKey).(*entity.User)
	return user
}
