package repository

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"membership-server/internal/config"
	domainrepo "membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/db"
	"membership-server/internal/infrastructure/mail"
	"membership-server/internal/infrastructure/sms"
)

// InitRepositories 모든 레포지토리를 초기화하고 컬렉션을 반환합니다
func InitRepositories(database *gorm.DB, redisClient *redis.Client, smtpClient *mail.SMTPClient, cfg *config.Config) *domainrepo.Repositories {
	// 사용자 레포지토리
	userRepo := NewUserRepository(database)

	// 초대 레포지토리
	invitationRepo := NewInvitationRepository(database)

	// 감사 추적 레포지토리
	auditTrailRepo := NewAuditTrailRepository(database)

	// 기록 레포지토리
	recordRepo := NewRecordRepository(database)

	// 캐시 레포지토리 (Redis 기반)
	cacheRepo := db.NewRedisRepository(redisClient)

	// 메일 레포지토리
	mailRepo := NewMailRepository(smtpClient)

	// SMS 레포지토리 (로그 기반 기본 구현)
	smsRepo := sms.NewLogSmsRepository(cfg.Logger, cfg.SMS.SenderID)

	// 레포지토리 컬렉션 생성
	repos := domainrepo.NewRepositories(
		userRepo,
		invitationRepo,
		auditTrailRepo,
		recordRepo,
		cacheRepo,
		mailRepo,
		smsRepo,
		nil,
	)

	// 트랜잭션 매니저는 컬렉션을 기반으로 마지막에 연결한다
	repos.Tx = NewGormTransactionManager(database, repos)

	return repos
}
