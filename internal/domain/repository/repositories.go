package repository

import "context"

// TransactionManager 하나의 트랜잭션 안에서 저장소 작업을 묶는다.
type TransactionManager interface {
	// WithinTransaction fn을 단일 트랜잭션으로 실행. fn이 에러를 반환하면 롤백한다.
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories 모든 레포지토리 인터페이스의 컬렉션
type Repositories struct {
	User       UserRepository
	Invitation InvitationRepository
	AuditTrail AuditTrailRepository
	Record     RecordRepository
	Cache      CacheRepository
	Mail       MailRepository
	Sms        SmsRepository
	Tx         TransactionManager
}

// NewRepositories 모든 레포지토리를 포함하는 컬렉션 생성
func NewRepositories(
	userRepo UserRepository,
	invitationRepo InvitationRepository,
	auditTrailRepo AuditTrailRepository,
	recordRepo RecordRepository,
	cacheRepo CacheRepository,
	mailRepo MailRepository,
	smsRepo SmsRepository,
	tx TransactionManager,
) *Repositories {
	return &Repositories{
		User:       userRepo,
		Invitation: invitationRepo,
		AuditTrail: auditTrailRepo,
		Record:     recordRepo,
		Cache:      cacheRepo,
		Mail:       mailRepo,
		Sms:        smsRepo,
		Tx:         tx,
	}
}
