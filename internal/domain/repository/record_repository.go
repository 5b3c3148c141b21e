package repository

import (
	"context"
	"time"

	"membership-server/internal/domain/entity"
)

// RecordRepository 행사/훈련/진급/활동 기록 저장소 인터페이스.
// 연쇄 삭제와 보고서 집계에 필요한 조작만 노출한다.
type RecordRepository interface {
	// DeleteOwnedBy 사용자 소유 기록 일괄 삭제 (활동, 진급, 훈련, 행사, RSVP)
	DeleteOwnedBy(ctx context.Context, userID string) error

	// ActivitySeries 범위 내 기간별 활동 기록 수 집계
	ActivitySeries(ctx context.Context, scope entity.Scope, from, to time.Time) ([]DateCount, error)
}
