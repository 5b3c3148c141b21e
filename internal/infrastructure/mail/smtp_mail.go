package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"membership-server/internal/config"
)

// SMTPConfig SMTP 설정 구조체
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPClient SMTP를 통한 이메일 발송 클라이언트
type SMTPClient struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPClient SMTP 클라이언트 생성
func NewSMTPClient(cfg SMTPConfig) *SMTPClient {
	return &SMTPClient{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendMail 이메일 발송
func (m *SMTPClient) SendMail(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.From, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		config.AppConfig.Logger.Error("이메일 발송 실패",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("이메일 발송 실패: %w", err)
	}

	config.AppConfig.Logger.Info("이메일 발송 성공",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}
