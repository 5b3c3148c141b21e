package repository

import (
	"context"

	"gorm.io/gorm"

	domainrepo "membership-server/internal/domain/repository"
)

// GormTransactionManager gorm 트랜잭션 기반 TransactionManager 구현체
type GormTransactionManager struct {
	db   *gorm.DB
	base *domainrepo.Repositories
}

// NewGormTransactionManager 트랜잭션 매니저 생성
func NewGormTransactionManager(db *gorm.DB, base *domainrepo.Repositories) domainrepo.TransactionManager {
	return &GormTransactionManager{db: db, base: base}
}

// WithinTransaction fn을 단일 트랜잭션으로 실행.
// DB 기반 레포지토리는 트랜잭션 핸들로 교체되고, 나머지는 그대로 전달된다.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(repos *domainrepo.Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepos := *m.base
		txRepos.User = NewUserRepository(tx)
		txRepos.Invitation = NewInvitationRepository(tx)
		txRepos.AuditTrail = NewAuditTrailRepository(tx)
		txRepos.Record = NewRecordRepository(tx)
		return fn(&txRepos)
	})
}
