package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"membership-server/internal/adapter/repository"
	"membership-server/internal/config"
	"membership-server/internal/infrastructure/db"
	"membership-server/internal/infrastructure/http"
	"membership-server/internal/usecase"
)

func main() {
	// 1. 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}

	// 2. 로거 가져오기
	logger := cfg.Logger
	defer logger.Sync()

	logger.Info("멤버십 서비스를 시작합니다...",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
	)

	// 3. 인프라스트럭처 초기화 (DB, Redis, 메일)
	infrastructure, err := db.NewInfrastructure(cfg)
	if err != nil {
		logger.Fatal("인프라스트럭처 초기화 실패", zap.Error(err))
	}
	defer infrastructure.Close()

	// 4. 레포지토리 초기화
	repos := repository.InitRepositories(infrastructure.DB, infrastructure.RedisClient, infrastructure.SMTPClient, cfg)

	// 5. 유스케이스 초기화
	useCases, err := usecase.SetupUseCases(logger, cfg, repos, infrastructure.EmailTemplates)
	if err != nil {
		logger.Fatal("유스케이스 초기화 실패", zap.Error(err))
	}

	// 6. HTTP 서버 설정
	httpConfig := http.Config{
		Port:    cfg.Server.Port,
		Timeout: cfg.Server.Timeout,
		Debug:   cfg.Server.Debug,
	}

	// 7. HTTP 서버 생성 및 라우트 등록
	httpServer := http.NewServer(httpConfig, logger)
	httpServer.RegisterRoutes(useCases, repos)

	// 8. 서버 시작
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error("HTTP 서버 종료", zap.Error(err))
		}
	}()

	// 9. 그레이스풀 종료를 위한 시그널 처리
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("서버를 종료합니다...")

	if err := httpServer.Stop(); err != nil {
		logger.Error("HTTP 서버 종료 오류", zap.Error(err))
	}

	logger.Info("서버가 정상적으로 종료되었습니다")
}
