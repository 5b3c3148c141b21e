package repository

import (
	"context"
)

// SmsRepository는 SMS 발송을 위한 인터페이스입니다.
type SmsRepository interface {
	// SendSms 지정된 번호로 문자 메시지를 발송합니다.
	SendSms(ctx context.Context, phoneNumber string, message string) error
}
