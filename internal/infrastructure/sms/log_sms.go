package sms

import (
	"context"

	"go.uber.org/zap"

	"membership-server/internal/domain/repository"
)

// LogSmsRepository 실제 게이트웨이 없이 발송 내용을 로그로 남기는 SMS 구현체.
// 게이트웨이 연동 전까지의 기본 구현이다.
type LogSmsRepository struct {
	logger   *zap.Logger
	senderID string
}

// NewLogSmsRepository 로그 기반 SMS 저장소 생성
func NewLogSmsRepository(logger *zap.Logger, senderID string) repository.SmsRepository {
	return &LogSmsRepository{
		logger:   logger,
		senderID: senderID,
	}
}

// SendSms 문자 메시지 발송 (로그 기록)
func (r *LogSmsRepository) SendSms(ctx context.Context, phoneNumber string, message string) error {
	r.logger.Info("SMS 발송",
		zap.String("sender_id", r.senderID),
		zap.String("to", phoneNumber),
		zap.String("message", message),
	)
	return nil
}
