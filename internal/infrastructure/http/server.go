package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/http/middleware"
	"membership-server/internal/usecase"
)

// Server HTTP 서버 구조체
type Server struct {
	router  *echo.Echo
	server  *http.Server
	logger  *zap.Logger
	address string
}

// Config HTTP 서버 설정
type Config struct {
	Port    string
	Timeout int
	Debug   bool
}

// NewServer HTTP 서버 생성
func NewServer(cfg Config, zapLogger *zap.Logger) *Server {
	// Echo 인스턴스 생성
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug

	// 기본 미들웨어 설정
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	// 요청 로그 미들웨어 설정
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zapLogger.Error("request", fields...)
				return nil
			}
			zapLogger.Info("request", fields...)
			return nil
		},
	}))

	// Prometheus 메트릭
	e.Use(echoprometheus.NewMiddleware("membership_server"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// HTTP 서버 주소 설정
	address := fmt.Sprintf(":%s", cfg.Port)

	server := &http.Server{
		Addr:         address,
		ReadTimeout:  time.Duration(cfg.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Timeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Timeout) * time.Second,
	}

	return &Server{
		router:  e,
		server:  server,
		logger:  zapLogger,
		address: address,
	}
}

// Router Echo 인스턴스 반환
func (s *Server) Router() *echo.Echo {
	return s.router
}

// RegisterRoutes HTTP 라우트 등록
func (s *Server) RegisterRoutes(useCases *usecase.UseCases, repos *repository.Repositories) {
	// 헬스 체크
	s.router.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	authMW := middleware.NewTokenMiddleware(useCases.Token, repos.User, s.logger)

	authHandler := NewAuthHandler(s.logger, useCases.Auth)
	mfaHandler := NewMfaHandler(s.logger, useCases.MFA)
	adminHandler := NewAdminHandler(s.logger, useCases.Admin, useCases.Audit, useCases.Report)

	// 인증 라우트. 무차별 대입 방지용 IP 기반 레이트 리밋을 건다.
	auth := s.router.Group("/auth")
	auth.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))

	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-otp", authHandler.VerifyOtp)
	auth.POST("/resend-otp", authHandler.ResendOtp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-mfa", authHandler.VerifyMfa, authMW.AuthenticateMfaPending())
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/change-password", authHandler.ChangePassword, authMW.Authenticate())
	auth.POST("/logout", authHandler.Logout, authMW.Authenticate())
	auth.GET("/me", authHandler.Me, authMW.Authenticate())
	auth.PUT("/me", authHandler.UpdateMe, authMW.Authenticate())

	// MFA 라우트 (세션 토큰 필요)
	mfa := s.router.Group("/mfa", authMW.Authenticate())
	mfa.POST("/setup", mfaHandler.Setup)
	mfa.POST("/verify-setup", mfaHandler.VerifySetup)
	mfa.POST("/disable", mfaHandler.Disable)
	mfa.GET("/status", mfaHandler.Status)

	// 관리 라우트 (세션 토큰 + 관리자 역할 필요)
	admin := s.router.Group("/admin",
		authMW.Authenticate(),
		authMW.RequireRoles(entity.RoleSsAdmin, entity.RoleNsAdmin, entity.RoleSuperAdmin),
	)
	admin.POST("/invite", adminHandler.Invite)
	admin.POST("/invite/resend", adminHandler.ResendInvite)
	admin.POST("/promote", adminHandler.Promote)
	admin.POST("/demote", adminHandler.Demote)
	admin.POST("/member-status", adminHandler.UpdateMemberStatus)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/status/:status", adminHandler.ListUsersByStatus)
	admin.GET("/role-stats", adminHandler.RoleStats)
	admin.GET("/status-counts", adminHandler.StatusCounts)
	admin.GET("/audit-trails", adminHandler.AuditTrails)
	admin.GET("/report-statistics", adminHandler.ReportStatistics)
	admin.GET("/report-statistics/export", adminHandler.ExportStatistics)
	admin.PUT("/users/:id", adminHandler.EditUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
}

// Start HTTP 서버 시작
func (s *Server) Start() error {
	s.logger.Info("HTTP 서버 시작",
		zap.String("address", s.address),
	)

	s.server.Handler = s.router
	return s.router.StartServer(s.server)
}

// Stop HTTP 서버 종료
func (s *Server) Stop() error {
	s.logger.Info("HTTP 서버 종료 중...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.router.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP 서버 종료 실패: %w", err)
	}

	s.logger.Info("HTTP 서버 종료 완료")
	return nil
}
